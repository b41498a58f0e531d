package grading

import (
	"fmt"
	"strings"
)

// Question is a minimal view of a question needed for grading.
// Keep this in sync with whatever fields your store uses.
type Question struct {
	Type          string // "objective" or "subjective"
	CorrectAnswer string // objective only
	Points        int
}

// Result is the outcome of grading a single question response.
type Result struct {
	Score     float64 // points awarded
	MaxPoints float64 // the question's max points
	Feedback  string
}

// Strategy grades a single question.
type Strategy interface {
	Grade(q Question, answer string) Result
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(q Question, answer string) Result
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(q Question, answer string) Result {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{MaxPoints: float64(q.Points), Feedback: "No grading strategy for this question type."}
	}
	return s.Grade(q, answer)
}

// Engine options

type Option func(*config)

type config struct {
	FullCredit     float64 // subjective multiplier for a detailed answer
	PartialCredit  float64 // subjective multiplier for an adequate answer
	MinimalCredit  float64 // subjective multiplier for a brief answer
	FullWordCount  int     // words needed for full effort credit
	BasicWordCount int     // words needed for adequate effort credit
}

func WithSubjectiveCredit(full, partial, minimal float64) Option {
	return func(c *config) {
		c.FullCredit = full
		c.PartialCredit = partial
		c.MinimalCredit = minimal
	}
}

func WithEffortThresholds(fullWords, basicWords int) Option {
	return func(c *config) {
		c.FullWordCount = fullWords
		c.BasicWordCount = basicWords
	}
}

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{
		FullCredit:     0.8,
		PartialCredit:  0.6,
		MinimalCredit:  0.3,
		FullWordCount:  10,
		BasicWordCount: 5,
	}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[string]Strategy{
			"objective":  objectiveStrategy{},
			"subjective": subjectiveStrategy{cfg: *cfg},
		},
	}
}

// --- Strategies ---

// objectiveStrategy awards full points for an exact match against the stored
// correct answer, comparing case-insensitively after trimming whitespace on
// both sides. No partial credit. A question with an empty correct answer can
// never match; that is a data problem for the caller, not an error here.
type objectiveStrategy struct{}

func (objectiveStrategy) Grade(q Question, answer string) Result {
	res := Result{MaxPoints: float64(q.Points)}
	key := strings.TrimSpace(q.CorrectAnswer)
	if key != "" && strings.EqualFold(strings.TrimSpace(answer), key) {
		res.Score = float64(q.Points)
		res.Feedback = "Correct! Well done."
		return res
	}
	if key == "" {
		res.Feedback = "Incorrect. No correct answer is on file for this question."
		return res
	}
	res.Feedback = fmt.Sprintf("Incorrect. The correct answer is %s.", q.CorrectAnswer)
	return res
}

// subjectiveStrategy gives effort-based partial credit keyed on word count.
// A heuristic, not semantic understanding: a detailed answer earns FullCredit
// of the points, an adequate one PartialCredit, a brief one MinimalCredit,
// and an empty answer nothing.
type subjectiveStrategy struct {
	cfg config
}

func (s subjectiveStrategy) Grade(q Question, answer string) Result {
	res := Result{MaxPoints: float64(q.Points)}
	words := len(strings.Fields(answer))
	switch {
	case words == 0:
		res.Feedback = "No answer provided."
	case words >= s.cfg.FullWordCount:
		res.Score = float64(q.Points) * s.cfg.FullCredit
		res.Feedback = "Good response! Your answer shows understanding."
	case words >= s.cfg.BasicWordCount:
		res.Score = float64(q.Points) * s.cfg.PartialCredit
		res.Feedback = "Adequate response. Consider providing more detail."
	default:
		res.Score = float64(q.Points) * s.cfg.MinimalCredit
		res.Feedback = "Brief response. Please elaborate for full credit."
	}
	return res
}
