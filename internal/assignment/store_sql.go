package assignment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emene-hs/smartgrade/internal/eventlog"
	"github.com/emene-hs/smartgrade/internal/grading"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	grader grading.Grader
	events *eventlog.Repo // optional
}

// NewSQLStore wraps a database handle whose schema has been ensured by
// db.Open. events may be nil to skip event logging.
func NewSQLStore(db *sql.DB, driver string, grader grading.Grader, events *eventlog.Repo) *SQLStore {
	return &SQLStore{db: db, driver: driver, grader: grader, events: events}
}

func (s *SQLStore) PutAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	if a.Title == "" {
		return Assignment{}, errors.New("title required")
	}
	if len(a.Questions) == 0 {
		return Assignment{}, errors.New("at least one question required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	for i := range a.Questions {
		if a.Questions[i].ID == "" {
			a.Questions[i].ID = uuid.NewString()
		}
		if a.Questions[i].Order == 0 {
			a.Questions[i].Order = i + 1
		}
	}
	sortQuestions(a.Questions)
	a.TotalPoints = SumPoints(a.Questions)
	a.CreatedAt = time.Now().Unix()
	a.Active = true

	qj, err := json.Marshal(a.Questions)
	if err != nil {
		return Assignment{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignments (id,title,description,teacher_id,total_points,questions_json,created_at,is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,1)`,
		a.ID, a.Title, a.Description, a.TeacherID, a.TotalPoints, string(qj), a.CreatedAt)
	if err != nil {
		return Assignment{}, err
	}
	s.appendEvent(ctx, eventlog.TypeAssignmentCreated, a.ID,
		map[string]any{"title": a.Title, "teacher_id": a.TeacherID, "total_points": a.TotalPoints})
	return a, nil
}

func (s *SQLStore) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	a, err := s.GetAssignmentFull(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	// Strip answer keys when serving to students (parity with the
	// in-memory behavior).
	stripAnswerKeys(&a)
	return a, nil
}

func (s *SQLStore) GetAssignmentFull(ctx context.Context, id string) (Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT a.id, a.title, a.description, a.teacher_id, a.total_points,
		        a.questions_json, a.created_at, a.is_active, u.name
		 FROM assignments a
		 LEFT JOIN users u ON u.id = a.teacher_id
		 WHERE a.id=$1`, id)
	var a Assignment
	var qjson string
	var active int
	var teacherName sql.NullString
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.TeacherID, &a.TotalPoints,
		&qjson, &a.CreatedAt, &active, &teacherName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assignment{}, errors.New("assignment not found")
		}
		return Assignment{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &a.Questions); err != nil {
		return Assignment{}, err
	}
	sortQuestions(a.Questions)
	a.Active = active != 0
	a.TeacherName = teacherName.String
	return a, nil
}

func (s *SQLStore) ListAssignments(ctx context.Context, opts ListOpts) ([]Assignment, error) {
	q := `SELECT a.id, a.title, a.description, a.teacher_id, a.total_points,
	             a.created_at, a.is_active, u.name
	      FROM assignments a
	      LEFT JOIN users u ON u.id = a.teacher_id`
	args := []any{}
	where := ""
	if !opts.IncludeInactive {
		where = " WHERE a.is_active=1"
	}
	if opts.TeacherID != "" {
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		args = append(args, opts.TeacherID)
		where += fmt.Sprintf(" a.teacher_id=$%d", len(args))
	}
	q += where + " ORDER BY a.created_at DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assignment{}
	for rows.Next() {
		var a Assignment
		var active int
		var teacherName sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.TeacherID,
			&a.TotalPoints, &a.CreatedAt, &active, &teacherName); err != nil {
			return nil, err
		}
		a.Active = active != 0
		a.TeacherName = teacherName.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeactivateAssignment(ctx context.Context, id, teacherID string) error {
	q := `UPDATE assignments SET is_active=0 WHERE id=$1`
	args := []any{id}
	if teacherID != "" {
		q += ` AND teacher_id=$2`
		args = append(args, teacherID)
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("assignment not found")
	}
	s.appendEvent(ctx, eventlog.TypeAssignmentDeactivated, id, map[string]any{"teacher_id": teacherID})
	return nil
}

func (s *SQLStore) SaveSubmission(ctx context.Context, assignmentID, studentID string, answers map[int]string) (Submission, error) {
	a, err := s.GetAssignmentFull(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	if !a.Active {
		return Submission{}, errors.New("assignment not found")
	}

	graded, total := gradeAnswers(s.grader, a.Questions, answers)
	aj, err := json.Marshal(graded)
	if err != nil {
		return Submission{}, err
	}
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Submission{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// One submission per (assignment, student): resubmitting replaces the
	// graded answers and bumps the count, keeping the submission ID stable.
	var subID string
	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT id, submission_count FROM submissions WHERE assignment_id=$1 AND student_id=$2`,
		assignmentID, studentID).Scan(&subID, &count)
	switch {
	case err == nil:
		count++
		_, err = tx.ExecContext(ctx,
			`UPDATE submissions SET total_score=$1, max_score=$2, answers_json=$3,
			        submitted_at=$4, submission_count=$5 WHERE id=$6`,
			total, a.TotalPoints, string(aj), now, count, subID)
		if err != nil {
			return Submission{}, err
		}
	case errors.Is(err, sql.ErrNoRows):
		subID, count = uuid.NewString(), 1
		_, err = tx.ExecContext(ctx,
			`INSERT INTO submissions (id,assignment_id,student_id,total_score,max_score,answers_json,submitted_at,submission_count)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			subID, assignmentID, studentID, total, a.TotalPoints, string(aj), now, count)
		if err != nil {
			return Submission{}, err
		}
	default:
		return Submission{}, err
	}
	if err = tx.Commit(); err != nil {
		return Submission{}, err
	}

	s.appendEvent(ctx, eventlog.TypeSubmissionGraded, subID, map[string]any{
		"assignment_id": assignmentID,
		"student_id":    studentID,
		"total_score":   total,
		"max_score":     a.TotalPoints,
		"attempt":       count,
	})

	return Submission{
		ID:              subID,
		AssignmentID:    assignmentID,
		StudentID:       studentID,
		TotalScore:      total,
		MaxScore:        a.TotalPoints,
		SubmittedAt:     now,
		SubmissionCount: count,
		Answers:         graded,
		Title:           a.Title,
	}, nil
}

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.assignment_id, s.student_id, s.total_score, s.max_score,
		        s.answers_json, s.submitted_at, s.submission_count,
		        a.title, a.questions_json, stu.name, tea.name
		 FROM submissions s
		 JOIN assignments a ON a.id = s.assignment_id
		 LEFT JOIN users stu ON stu.id = s.student_id
		 LEFT JOIN users tea ON tea.id = a.teacher_id
		 WHERE s.id=$1`, id)
	var sub Submission
	var ajson, qjson string
	var studentName, teacherName sql.NullString
	if err := row.Scan(&sub.ID, &sub.AssignmentID, &sub.StudentID, &sub.TotalScore,
		&sub.MaxScore, &ajson, &sub.SubmittedAt, &sub.SubmissionCount,
		&sub.Title, &qjson, &studentName, &teacherName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, errors.New("submission not found")
		}
		return Submission{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &sub.Answers); err != nil {
		return Submission{}, err
	}
	var questions []Question
	if err := json.Unmarshal([]byte(qjson), &questions); err == nil {
		attachQuestions(sub.Answers, questions)
	}
	sub.StudentName = studentName.String
	sub.TeacherName = teacherName.String
	return sub, nil
}

func (s *SQLStore) ListSubmissions(ctx context.Context, opts SubmissionListOpts) ([]Submission, error) {
	q := `SELECT s.id, s.assignment_id, s.student_id, s.total_score, s.max_score,
	             s.submitted_at, s.submission_count, a.title, stu.name, tea.name
	      FROM submissions s
	      JOIN assignments a ON a.id = s.assignment_id
	      LEFT JOIN users stu ON stu.id = s.student_id
	      LEFT JOIN users tea ON tea.id = a.teacher_id`
	args := []any{}
	where := ""
	add := func(cond string, v any) {
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		args = append(args, v)
		where += fmt.Sprintf(" %s=$%d", cond, len(args))
	}
	if opts.AssignmentID != "" {
		add("s.assignment_id", opts.AssignmentID)
	}
	if opts.StudentID != "" {
		add("s.student_id", opts.StudentID)
	}
	if opts.TeacherID != "" {
		add("a.teacher_id", opts.TeacherID)
	}
	q += where + " ORDER BY s.submitted_at DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Submission{}
	for rows.Next() {
		var sub Submission
		var studentName, teacherName sql.NullString
		if err := rows.Scan(&sub.ID, &sub.AssignmentID, &sub.StudentID, &sub.TotalScore,
			&sub.MaxScore, &sub.SubmittedAt, &sub.SubmissionCount,
			&sub.Title, &studentName, &teacherName); err != nil {
			return nil, err
		}
		sub.StudentName = studentName.String
		sub.TeacherName = teacherName.String
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) appendEvent(ctx context.Context, typ, key string, data map[string]any) {
	if s.events == nil {
		return
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return
	}
	// Event logging is best-effort; a failed append never fails the write
	// it describes.
	_ = s.events.Append(ctx, eventlog.Event{Type: typ, Key: key, DataJSON: string(buf)})
}
