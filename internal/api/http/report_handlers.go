package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emene-hs/smartgrade/internal/assignment"
	authmw "github.com/emene-hs/smartgrade/internal/auth/middleware"
	"github.com/emene-hs/smartgrade/internal/cache"
	"github.com/emene-hs/smartgrade/internal/rbac"
	"github.com/emene-hs/smartgrade/internal/stats"
)

// reportRow is one submission line in a report.
type reportRow struct {
	SubmissionID string  `json:"submission_id"`
	Assignment   string  `json:"assignment"`
	Student      string  `json:"student,omitempty"`
	Teacher      string  `json:"teacher,omitempty"`
	Score        float64 `json:"score"`
	MaxScore     int     `json:"max_score"`
	Percentage   float64 `json:"percentage"`
	Grade        string  `json:"grade"`
	SubmittedAt  int64   `json:"submitted_at"`
}

type classReport struct {
	Stats        stats.Class    `json:"stats"`
	Distribution map[string]int `json:"distribution"`
	Rows         []reportRow    `json:"rows"`
}

type assignmentReport struct {
	AssignmentID string         `json:"assignment_id"`
	Title        string         `json:"title"`
	Stats        stats.Class    `json:"stats"`
	Difficulty   string         `json:"difficulty"`
	Distribution map[string]int `json:"distribution"`
	Rows         []reportRow    `json:"rows"`
}

type studentReport struct {
	StudentID    string                   `json:"student_id"`
	OverallPct   float64                  `json:"overall_pct"`
	OverallGrade string                   `json:"overall_grade"`
	Description  string                   `json:"description"`
	Trend        string                   `json:"trend"`
	Best         *reportRow               `json:"best,omitempty"`
	Worst        *reportRow               `json:"worst,omitempty"`
	Distribution map[string]int           `json:"distribution"`
	ByTeacher    []stats.TeacherBreakdown `json:"by_teacher"`
	Rows         []reportRow              `json:"rows"`
}

func toRecords(subs []assignment.Submission) []stats.Record {
	out := make([]stats.Record, len(subs))
	for i, s := range subs {
		out[i] = stats.Record{
			TotalScore:  s.TotalScore,
			MaxScore:    float64(s.MaxScore),
			SubmittedAt: s.SubmittedAt,
			Title:       s.Title,
			Teacher:     s.TeacherName,
		}
	}
	return out
}

func toRows(subs []assignment.Submission) []reportRow {
	out := make([]reportRow, len(subs))
	for i, s := range subs {
		pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
		out[i] = reportRow{
			SubmissionID: s.ID,
			Assignment:   s.Title,
			Student:      s.StudentName,
			Teacher:      s.TeacherName,
			Score:        s.TotalScore,
			MaxScore:     s.MaxScore,
			Percentage:   pct,
			Grade:        stats.GradeLetter(pct),
			SubmittedAt:  s.SubmittedAt,
		}
	}
	return out
}

// GET /reports/class?teacher_id=
// Class-wide aggregates over every graded submission, optionally scoped to
// one teacher's assignments.
func ClassReportHandler(store assignment.Store, reports *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID := strings.TrimSpace(r.URL.Query().Get("teacher_id"))
		key := "report:class:" + teacherID

		var rep classReport
		if err := reports.Get(r.Context(), key, &rep); err == nil {
			writeJSON(w, http.StatusOK, rep)
			return
		}

		subs, err := store.ListSubmissions(r.Context(), assignment.SubmissionListOpts{TeacherID: teacherID})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		recs := toRecords(subs)
		rep = classReport{
			Stats:        stats.ClassStatistics(recs),
			Distribution: stats.GradeDistribution(recs),
			Rows:         toRows(subs),
		}
		reports.Set(r.Context(), key, rep)
		writeJSON(w, http.StatusOK, rep)
	}
}

// GET /reports/assignments/{assignmentID}
func AssignmentReportHandler(store assignment.Store, reports *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assignmentID")
		key := "report:assignment:" + id

		var rep assignmentReport
		if err := reports.Get(r.Context(), key, &rep); err == nil {
			writeJSON(w, http.StatusOK, rep)
			return
		}

		a, err := store.GetAssignment(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		subs, err := store.ListSubmissions(r.Context(), assignment.SubmissionListOpts{AssignmentID: id})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		recs := toRecords(subs)
		rep = assignmentReport{
			AssignmentID: a.ID,
			Title:        a.Title,
			Stats:        stats.ClassStatistics(recs),
			Difficulty:   stats.AssignmentDifficulty(recs),
			Distribution: stats.GradeDistribution(recs),
			Rows:         toRows(subs),
		}
		reports.Set(r.Context(), key, rep)
		writeJSON(w, http.StatusOK, rep)
	}
}

// GET /reports/students/{studentID}
// Students may only request their own report; the route for teachers passes
// any ID through.
func StudentReportHandler(store assignment.Store, reports *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "studentID")
		role := rbac.RoleFromContext(r.Context())
		if role != "teacher" && role != "admin" && id != authmw.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		key := "report:student:" + id

		var rep studentReport
		if err := reports.Get(r.Context(), key, &rep); err == nil {
			writeJSON(w, http.StatusOK, rep)
			return
		}

		subs, err := store.ListSubmissions(r.Context(), assignment.SubmissionListOpts{StudentID: id})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		recs := toRecords(subs)
		pct := stats.OverallPercentage(recs)
		rep = studentReport{
			StudentID:    id,
			OverallPct:   pct,
			OverallGrade: stats.GradeLetter(pct),
			Description:  stats.GradeDescription(pct),
			Trend:        stats.Trend(recs),
			Distribution: stats.GradeDistribution(recs),
			ByTeacher:    stats.ByTeacher(recs),
			Rows:         toRows(subs),
		}
		if best, ok := stats.Best(recs); ok {
			rep.Best = recToRow(best)
		}
		if worst, ok := stats.Worst(recs); ok {
			rep.Worst = recToRow(worst)
		}
		reports.Set(r.Context(), key, rep)
		writeJSON(w, http.StatusOK, rep)
	}
}

func recToRow(rec stats.Record) *reportRow {
	pct := stats.Percentage(rec.TotalScore, rec.MaxScore)
	return &reportRow{
		Assignment:  rec.Title,
		Teacher:     rec.Teacher,
		Score:       rec.TotalScore,
		MaxScore:    int(rec.MaxScore),
		Percentage:  pct,
		Grade:       stats.GradeLetter(pct),
		SubmittedAt: rec.SubmittedAt,
	}
}
