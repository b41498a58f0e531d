package assignment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emene-hs/smartgrade/internal/grading"
)

type memoryStore struct {
	mu          sync.RWMutex
	grader      grading.Grader
	assignments map[string]Assignment
	submissions map[string]Submission
	byPair      map[string]string // assignmentID|studentID -> submissionID
}

// NewInMemoryStore keeps everything in process memory. Used by tests; the
// SQL store is the real one.
func NewInMemoryStore(g grading.Grader) Store {
	return &memoryStore{
		grader:      g,
		assignments: map[string]Assignment{},
		submissions: map[string]Submission{},
		byPair:      map[string]string{},
	}
}

func (m *memoryStore) PutAssignment(_ context.Context, a Assignment) (Assignment, error) {
	if a.Title == "" {
		return Assignment{}, errors.New("title required")
	}
	if len(a.Questions) == 0 {
		return Assignment{}, errors.New("at least one question required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

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
	m.assignments[a.ID] = a
	return a, nil
}

func (m *memoryStore) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	a, err := m.GetAssignmentFull(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	stripAnswerKeys(&a)
	return a, nil
}

func (m *memoryStore) GetAssignmentFull(_ context.Context, id string) (Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return Assignment{}, errors.New("assignment not found")
	}
	a.Questions = append([]Question(nil), a.Questions...)
	return a, nil
}

func (m *memoryStore) ListAssignments(_ context.Context, opts ListOpts) ([]Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Assignment{}
	for _, a := range m.assignments {
		if !opts.IncludeInactive && !a.Active {
			continue
		}
		if opts.TeacherID != "" && a.TeacherID != opts.TeacherID {
			continue
		}
		a.Questions = nil
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return paginate(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) DeactivateAssignment(_ context.Context, id, teacherID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return errors.New("assignment not found")
	}
	if teacherID != "" && a.TeacherID != teacherID {
		return errors.New("not your assignment")
	}
	a.Active = false
	m.assignments[id] = a
	return nil
}

func (m *memoryStore) SaveSubmission(_ context.Context, assignmentID, studentID string, answers map[int]string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[assignmentID]
	if !ok || !a.Active {
		return Submission{}, errors.New("assignment not found")
	}

	graded, total := gradeAnswers(m.grader, a.Questions, answers)
	sub := Submission{
		ID:              uuid.NewString(),
		AssignmentID:    assignmentID,
		StudentID:       studentID,
		TotalScore:      total,
		MaxScore:        a.TotalPoints,
		SubmittedAt:     time.Now().Unix(),
		SubmissionCount: 1,
		Answers:         graded,
		Title:           a.Title,
	}

	pair := assignmentID + "|" + studentID
	if prevID, ok := m.byPair[pair]; ok {
		prev := m.submissions[prevID]
		sub.ID = prev.ID
		sub.SubmissionCount = prev.SubmissionCount + 1
	}
	m.submissions[sub.ID] = sub
	m.byPair[pair] = sub.ID
	return sub, nil
}

func (m *memoryStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.submissions[id]
	if !ok {
		return Submission{}, errors.New("submission not found")
	}
	if a, ok := m.assignments[sub.AssignmentID]; ok {
		sub.Answers = append([]Answer(nil), sub.Answers...)
		attachQuestions(sub.Answers, a.Questions)
		sub.Title = a.Title
	}
	return sub, nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, opts SubmissionListOpts) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Submission{}
	for _, s := range m.submissions {
		if opts.AssignmentID != "" && s.AssignmentID != opts.AssignmentID {
			continue
		}
		if opts.StudentID != "" && s.StudentID != opts.StudentID {
			continue
		}
		if opts.TeacherID != "" {
			a, ok := m.assignments[s.AssignmentID]
			if !ok || a.TeacherID != opts.TeacherID {
				continue
			}
		}
		if a, ok := m.assignments[s.AssignmentID]; ok {
			s.Title = a.Title
		}
		s.Answers = nil
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	return paginate(out, opts.Limit, opts.Offset), nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
