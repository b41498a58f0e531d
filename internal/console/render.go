package console

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/emene-hs/smartgrade/internal/assignment"
	"github.com/emene-hs/smartgrade/internal/stats"
)

// table renders rows with aligned columns. Each row is written as one
// tab-separated line.
func (a *App) table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(underlines(headers), "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}

func underlines(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.Repeat("-", len(h))
	}
	return out
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

func (a *App) printClassStats(c stats.Class) {
	a.printf("Total Submissions: %d\n", c.TotalSubmissions)
	a.printf("Class Average: %.1f%%\n", c.AverageScore)
	a.printf("Highest Score: %.1f%%\n", c.HighestScore)
	a.printf("Lowest Score: %.1f%%\n", c.LowestScore)
	a.printf("Pass Rate (>=60%%): %.1f%%\n", c.PassRate)
}

func (a *App) printDistribution(recs []stats.Record) {
	dist := stats.GradeDistribution(recs)
	a.printf("\n--- Grade Distribution ---\n")
	for _, g := range []string{"A", "B", "C", "D", "F"} {
		count := dist[g]
		pctOfTotal := 0.0
		if len(recs) > 0 {
			pctOfTotal = float64(count) / float64(len(recs)) * 100
		}
		a.printf("Grade %s: %d (%.1f%%)\n", g, count, pctOfTotal)
	}
}

// printSuggestions mirrors the feedback bands used on report cards.
func (a *App) printSuggestions(pct float64) {
	a.printf("\n--- Improvement Suggestions ---\n")
	switch {
	case pct >= 90:
		a.printf("Excellent work! You've mastered this material.\n")
		a.printf("- Continue practicing to maintain this level\n")
		a.printf("- Consider helping classmates who might be struggling\n")
	case pct >= 80:
		a.printf("Very good work! You have a strong understanding.\n")
		a.printf("- Review questions you missed to reach excellence\n")
		a.printf("- Focus on careful reading of questions\n")
	case pct >= 70:
		a.printf("Good effort! You're on the right track.\n")
		a.printf("- Review the material for topics you missed\n")
		a.printf("- Practice similar questions to improve understanding\n")
	case pct >= 60:
		a.printf("You're passing, but there's room for improvement.\n")
		a.printf("- Schedule a meeting with your teacher for help\n")
		a.printf("- Review course materials thoroughly\n")
	default:
		a.printf("This assignment shows you need additional support.\n")
		a.printf("- Meet with your teacher as soon as possible\n")
		a.printf("- Review fundamental concepts\n")
		a.printf("- Don't hesitate to ask questions in class\n")
	}
}

// printTypeBreakdown reports per-question-type performance for one
// submission, with targeted advice below 70 percent.
func (a *App) printTypeBreakdown(answers []assignment.Answer) {
	var objScore, subjScore float64
	var objMax, subjMax int
	for _, ans := range answers {
		switch ans.QuestionType {
		case assignment.TypeObjective:
			objScore += ans.Score
			objMax += ans.Points
		case assignment.TypeSubjective:
			subjScore += ans.Score
			subjMax += ans.Points
		}
	}
	if objMax > 0 {
		pct := stats.Percentage(objScore, float64(objMax))
		a.printf("\nMultiple Choice Performance: %.1f%%\n", pct)
		if pct < 70 {
			a.printf("- Focus on reading questions more carefully\n")
			a.printf("- Review key concepts and definitions\n")
		}
	}
	if subjMax > 0 {
		pct := stats.Percentage(subjScore, float64(subjMax))
		a.printf("\nEssay/Short Answer Performance: %.1f%%\n", pct)
		if pct < 70 {
			a.printf("- Provide more detailed explanations\n")
			a.printf("- Use specific examples to support your points\n")
		}
	}
}
