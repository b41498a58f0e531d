package assignment

import "context"

type ListOpts struct {
	TeacherID       string // filter by owning teacher
	IncludeInactive bool
	Limit           int
	Offset          int
}

type SubmissionListOpts struct {
	AssignmentID string // filter by assignment
	StudentID    string // filter by student
	TeacherID    string // filter by the assignment's owning teacher
	Limit        int
	Offset       int
}

type Store interface {
	// PutAssignment stores a new assignment with its questions. TotalPoints
	// is computed from the questions; question IDs and order are assigned
	// here if missing.
	PutAssignment(ctx context.Context, a Assignment) (Assignment, error)

	// GetAssignment is the student-safe view: correct answers stripped.
	GetAssignment(ctx context.Context, id string) (Assignment, error)
	// GetAssignmentFull keeps answer keys, for grading and teacher review.
	GetAssignmentFull(ctx context.Context, id string) (Assignment, error)

	ListAssignments(ctx context.Context, opts ListOpts) ([]Assignment, error)

	// DeactivateAssignment soft-deletes; only the owning teacher may do it.
	DeactivateAssignment(ctx context.Context, id, teacherID string) error

	// SaveSubmission grades the answers (keyed by question position) against
	// the assignment's questions and stores the result, replacing any prior
	// submission by the same student and incrementing its submission count.
	SaveSubmission(ctx context.Context, assignmentID, studentID string, answers map[int]string) (Submission, error)

	// GetSubmission returns the submission with its graded answers joined to
	// their question text.
	GetSubmission(ctx context.Context, id string) (Submission, error)

	ListSubmissions(ctx context.Context, opts SubmissionListOpts) ([]Submission, error)
}
