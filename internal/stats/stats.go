// Package stats computes performance metrics over graded submissions.
// Every function is a pure transformation of its inputs; loading records
// and rendering reports belong to the caller.
package stats

import "sort"

// PassThreshold is the minimum percentage considered a passing result.
const PassThreshold = 60.0

// Record is the minimal view of a submission the statistics functions need.
// Title and Teacher ride along for report rows; SubmittedAt (unix seconds)
// orders trend windows and breaks best/worst ties.
type Record struct {
	TotalScore  float64
	MaxScore    float64
	SubmittedAt int64
	Title       string
	Teacher     string
}

// Percentage returns the score as a percentage of max. A zero max yields
// zero rather than a division error; unscored submissions simply do not
// count toward anything.
func Percentage(total, max float64) float64 {
	if max == 0 {
		return 0
	}
	return total / max * 100
}

// GradeLetter maps a percentage to a letter grade. Each band is inclusive
// on its lower bound: 90 is an A, 89.999 a B.
func GradeLetter(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradeDescription maps a percentage to the wording used on report cards.
func GradeDescription(pct float64) string {
	switch {
	case pct >= 90:
		return "Excellent"
	case pct >= 80:
		return "Very Good"
	case pct >= 70:
		return "Good"
	case pct >= 60:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}

// Class holds class-wide aggregates. Average, highest, lowest and pass rate
// are percentages computed over submissions with a positive max score;
// TotalSubmissions counts every submission regardless.
type Class struct {
	TotalSubmissions int     `json:"total_submissions"`
	AverageScore     float64 `json:"average_score"`
	HighestScore     float64 `json:"highest_score"`
	LowestScore      float64 `json:"lowest_score"`
	PassRate         float64 `json:"pass_rate"`
}

// ClassStatistics aggregates a set of submissions. The average is unweighted
// across submissions (mean of percentages), not weighted by points; see
// OverallPercentage for the weighted variant. All aggregates are zero when
// no submission qualifies.
func ClassStatistics(subs []Record) Class {
	c := Class{TotalSubmissions: len(subs)}

	var pcts []float64
	for _, s := range subs {
		if s.MaxScore > 0 {
			pcts = append(pcts, Percentage(s.TotalScore, s.MaxScore))
		}
	}
	if len(pcts) == 0 {
		return c
	}

	sum, highest, lowest, passing := 0.0, pcts[0], pcts[0], 0
	for _, p := range pcts {
		sum += p
		if p > highest {
			highest = p
		}
		if p < lowest {
			lowest = p
		}
		if p >= PassThreshold {
			passing++
		}
	}
	c.AverageScore = sum / float64(len(pcts))
	c.HighestScore = highest
	c.LowestScore = lowest
	c.PassRate = float64(passing) / float64(len(pcts)) * 100
	return c
}

// OverallPercentage is the points-weighted aggregate: total points earned
// over total points possible. It differs from ClassStatistics' unweighted
// average whenever max scores vary across submissions.
func OverallPercentage(subs []Record) float64 {
	var total, possible float64
	for _, s := range subs {
		total += s.TotalScore
		possible += s.MaxScore
	}
	return Percentage(total, possible)
}

// Difficulty classifies an assignment by its average percentage.
func Difficulty(avgPct float64) string {
	switch {
	case avgPct >= 80:
		return "Easy"
	case avgPct >= 60:
		return "Medium"
	default:
		return "Hard"
	}
}

// AssignmentDifficulty classifies an assignment from its submissions,
// using the points-weighted average. No submissions means no classification.
func AssignmentDifficulty(subs []Record) string {
	if len(subs) == 0 {
		return "N/A"
	}
	return Difficulty(OverallPercentage(subs))
}

// trendWindow is how many recent submissions the trend looks at.
const trendWindow = 3

// Trend compares the newest of the last three submissions against the oldest
// of that window, with a five-point threshold either way. Submissions are
// ordered by submission time (stable, so input order breaks timestamp ties);
// unscored ones are skipped. Fewer than two usable points is not a trend.
func Trend(subs []Record) string {
	ordered := make([]Record, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt < ordered[j].SubmittedAt
	})
	if len(ordered) > trendWindow {
		ordered = ordered[len(ordered)-trendWindow:]
	}

	var pcts []float64
	for _, s := range ordered {
		if s.MaxScore > 0 {
			pcts = append(pcts, Percentage(s.TotalScore, s.MaxScore))
		}
	}
	if len(pcts) < 2 {
		return "Insufficient data"
	}

	first, last := pcts[0], pcts[len(pcts)-1]
	switch {
	case last > first+5:
		return "Improving"
	case last < first-5:
		return "Declining"
	default:
		return "Stable"
	}
}

// GradeDistribution counts submissions per letter grade. Submissions without
// a positive max score have no percentage and are not counted.
func GradeDistribution(subs []Record) map[string]int {
	dist := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0}
	for _, s := range subs {
		if s.MaxScore > 0 {
			dist[GradeLetter(Percentage(s.TotalScore, s.MaxScore))]++
		}
	}
	return dist
}

// Best returns the submission with the highest percentage. Ties go to the
// earliest submission time, then to input order, so selection is stable.
func Best(subs []Record) (Record, bool) {
	return pick(subs, func(a, b float64) bool { return a > b })
}

// Worst returns the submission with the lowest percentage, with the same
// tie-break as Best.
func Worst(subs []Record) (Record, bool) {
	return pick(subs, func(a, b float64) bool { return a < b })
}

func pick(subs []Record, better func(a, b float64) bool) (Record, bool) {
	if len(subs) == 0 {
		return Record{}, false
	}
	best := subs[0]
	bestPct := Percentage(best.TotalScore, best.MaxScore)
	for _, s := range subs[1:] {
		p := Percentage(s.TotalScore, s.MaxScore)
		if better(p, bestPct) || (p == bestPct && s.SubmittedAt < best.SubmittedAt) {
			best, bestPct = s, p
		}
	}
	return best, true
}

// TeacherBreakdown is a per-teacher performance row for the student summary.
type TeacherBreakdown struct {
	Teacher     string  `json:"teacher"`
	AveragePct  float64 `json:"average_pct"`
	Grade       string  `json:"grade"`
	Submissions int     `json:"submissions"`
}

// ByTeacher groups submissions by teacher and reports the points-weighted
// average for each, in first-seen order. Teachers whose submissions carry no
// points are omitted.
func ByTeacher(subs []Record) []TeacherBreakdown {
	type acc struct {
		total, possible float64
		count           int
	}
	sums := map[string]*acc{}
	var order []string
	for _, s := range subs {
		a, ok := sums[s.Teacher]
		if !ok {
			a = &acc{}
			sums[s.Teacher] = a
			order = append(order, s.Teacher)
		}
		a.total += s.TotalScore
		a.possible += s.MaxScore
		a.count++
	}

	out := make([]TeacherBreakdown, 0, len(order))
	for _, name := range order {
		a := sums[name]
		if a.possible == 0 {
			continue
		}
		pct := Percentage(a.total, a.possible)
		out = append(out, TeacherBreakdown{
			Teacher:     name,
			AveragePct:  pct,
			Grade:       GradeLetter(pct),
			Submissions: a.count,
		})
	}
	return out
}
