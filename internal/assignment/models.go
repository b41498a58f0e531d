package assignment

// Question types. Objective questions grade by exact match against
// CorrectAnswer; subjective questions grade by the effort heuristic.
const (
	TypeObjective  = "objective"
	TypeSubjective = "subjective"
)

type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	CorrectAnswer string   `json:"correct_answer,omitempty"` // objective only
	Points        int      `json:"points"`
	Options       []string `json:"options,omitempty"` // objective only, labeled "A) ..." etc.
	Order         int      `json:"order"`
}

type Assignment struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TeacherID   string     `json:"teacher_id"`
	TotalPoints int        `json:"total_points"`
	Questions   []Question `json:"questions,omitempty"`
	CreatedAt   int64      `json:"created_at,omitempty"`
	Active      bool       `json:"active"`

	TeacherName string `json:"teacher_name,omitempty"` // joined for display
}

// TotalPoints sums question points. Called once at creation; the stored
// value never changes afterwards because questions are immutable.
func SumPoints(qs []Question) int {
	total := 0
	for _, q := range qs {
		total += q.Points
	}
	return total
}

type Answer struct {
	QuestionID    string  `json:"question_id"`
	StudentAnswer string  `json:"student_answer"`
	Score         float64 `json:"score"`
	Feedback      string  `json:"feedback"`

	// Question fields carried along for feedback views.
	QuestionText  string `json:"question_text,omitempty"`
	QuestionType  string `json:"question_type,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Points        int    `json:"points,omitempty"`
}

// Submission is the single current set of a student's answers to one
// assignment. Resubmitting replaces the previous answers wholesale and
// bumps SubmissionCount. TotalScore is always the exact sum of the answer
// scores; MaxScore is the assignment's total points at submission time.
type Submission struct {
	ID              string   `json:"id"`
	AssignmentID    string   `json:"assignment_id"`
	StudentID       string   `json:"student_id"`
	TotalScore      float64  `json:"total_score"`
	MaxScore        int      `json:"max_score"`
	SubmittedAt     int64    `json:"submitted_at"`
	SubmissionCount int      `json:"submission_count"`
	Answers         []Answer `json:"answers,omitempty"`

	// Joined for report rows.
	Title       string `json:"title,omitempty"`
	StudentName string `json:"student_name,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
}
