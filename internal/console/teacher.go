package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/emene-hs/smartgrade/internal/assignment"
	"github.com/emene-hs/smartgrade/internal/stats"
)

func (a *App) teacherMenu(ctx context.Context) {
	for {
		a.header("Teacher Dashboard")
		a.printf("1. Manage Students\n")
		a.printf("2. Create Assignment\n")
		a.printf("3. View My Assignments\n")
		a.printf("4. View Student Submissions\n")
		a.printf("5. Generate Reports\n")
		a.printf("6. Assignment Statistics\n")
		a.printf("7. Change Password\n")
		a.printf("8. Logout\n")

		switch a.prompt("\nSelect option (1-8): ") {
		case "1":
			a.manageStudents(ctx)
		case "2":
			a.createAssignment(ctx)
		case "3":
			a.viewMyAssignments(ctx)
		case "4":
			a.viewSubmissions(ctx)
		case "5":
			a.reportsMenu(ctx)
		case "6":
			a.assignmentStatistics(ctx)
		case "7":
			a.changePassword(ctx)
		case "8":
			a.printf("Logging out...\n")
			return
		default:
			a.printf("Invalid choice.\n")
		}
	}
}

// --- student management ---

func (a *App) manageStudents(ctx context.Context) {
	for {
		a.printf("\n--- Student Management ---\n")
		a.printf("1. Add New Student\n")
		a.printf("2. View My Students\n")
		a.printf("3. View All Students\n")
		a.printf("4. Deactivate Student\n")
		a.printf("5. Back to Main Menu\n")

		switch a.prompt("Select option (1-5): ") {
		case "1":
			a.addStudent(ctx)
		case "2":
			a.listStudents(ctx, a.user.ID)
		case "3":
			a.listStudents(ctx, "")
		case "4":
			a.deactivateStudent(ctx)
		case "5":
			return
		default:
			a.printf("Invalid choice.\n")
		}
	}
}

func (a *App) addStudent(ctx context.Context) {
	name := a.prompt("Enter student's full name: ")
	u, err := a.users.AddStudent(ctx, name, a.user.ID)
	if err != nil {
		a.printf("Failed to add student: %v\n", err)
		return
	}
	a.printf("\n%s\n", strings.Repeat("=", 50))
	a.printf("Student Added Successfully!\n")
	a.printf("Name: %s\nLogin Code: %s\n", u.Name, u.LoginCode)
	a.printf("%s\n", strings.Repeat("=", 50))
	a.printf("IMPORTANT: Provide this login code to the student.\n")
	a.printf("They will need their exact name and this code to login.\n")
}

func (a *App) listStudents(ctx context.Context, createdBy string) {
	students, err := a.users.ListStudents(ctx, createdBy)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(students) == 0 {
		a.printf("No students found.\n")
		return
	}
	rows := make([][]string, len(students))
	for i, s := range students {
		rows[i] = []string{s.ID[:8], s.Name, s.LoginCode, activeLabel(s.Active), formatDate(s.CreatedAt)}
	}
	a.printf("\n")
	a.table([]string{"ID", "Name", "Login Code", "Status", "Date Added"}, rows)
	a.printf("\nTotal Students: %d\n", len(students))
}

func (a *App) deactivateStudent(ctx context.Context) {
	a.listStudents(ctx, a.user.ID)
	prefix := a.prompt("\nEnter student ID to deactivate: ")
	if prefix == "" {
		return
	}
	students, err := a.users.ListStudents(ctx, a.user.ID)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	for _, s := range students {
		if strings.HasPrefix(s.ID, prefix) {
			if !a.confirm(fmt.Sprintf("Deactivate %s?", s.Name)) {
				a.printf("Deactivation cancelled.\n")
				return
			}
			if err := a.users.DeactivateStudent(ctx, s.ID, a.user.ID); err != nil {
				a.printf("Failed: %v\n", err)
				return
			}
			a.printf("Student %s has been deactivated.\n", s.Name)
			return
		}
	}
	a.printf("Invalid student ID.\n")
}

// --- assignment creation ---

func (a *App) createAssignment(ctx context.Context) {
	a.header("Create New Assignment")

	title := a.prompt("Assignment title: ")
	if title == "" {
		a.printf("Title required.\n")
		return
	}
	desc := a.prompt("Assignment description (optional): ")

	var questions []assignment.Question
	for {
		a.printf("\n--- Question %d ---\n", len(questions)+1)
		q, ok := a.buildQuestion()
		if ok {
			questions = append(questions, q)
		}
		if !a.confirm("Add another question?") {
			break
		}
	}
	if len(questions) == 0 {
		a.printf("No questions added. Assignment not created.\n")
		return
	}

	saved, err := a.store.PutAssignment(ctx, assignment.Assignment{
		Title:       title,
		Description: desc,
		TeacherID:   a.user.ID,
		Questions:   questions,
	})
	if err != nil {
		a.printf("Failed to create assignment: %v\n", err)
		return
	}
	a.printf("\n%s\n", strings.Repeat("=", 50))
	a.printf("Assignment Created Successfully!\n")
	a.printf("Title: %s\nQuestions: %d\nTotal Points: %d\nAssignment ID: %s\n",
		saved.Title, len(saved.Questions), saved.TotalPoints, saved.ID)
	a.printf("%s\n", strings.Repeat("=", 50))
}

func (a *App) buildQuestion() (assignment.Question, bool) {
	text := a.prompt("Enter question text: ")
	if text == "" {
		return assignment.Question{}, false
	}

	a.printf("\nQuestion types:\n1. Objective (Multiple choice, True/False)\n2. Subjective (Essay, Short answer)\n")
	typeChoice := a.prompt("Select question type (1 or 2): ")

	points, ok := a.promptInt("Points for this question: ")
	if !ok || points <= 0 {
		a.printf("Points must be a positive number.\n")
		return assignment.Question{}, false
	}

	q := assignment.Question{Text: text, Points: points, Type: assignment.TypeSubjective}
	if typeChoice == "1" {
		q.Type = assignment.TypeObjective
		if !a.fillObjective(&q) {
			return assignment.Question{}, false
		}
	}
	return q, true
}

func (a *App) fillObjective(q *assignment.Question) bool {
	a.printf("\nObjective Question Setup:\n1. Multiple Choice (A, B, C, D)\n2. True/False (A, B)\n")
	if a.prompt("Select type (1 or 2): ") == "2" {
		q.Options = []string{"A. True", "B. False"}
		ans := strings.ToUpper(a.prompt("Correct answer (A for True, B for False): "))
		if ans != "A" && ans != "B" {
			a.printf("Invalid answer.\n")
			return false
		}
		q.CorrectAnswer = ans
		return true
	}
	labels := []string{"A", "B", "C", "D"}
	a.printf("\nEnter four options:\n")
	for _, label := range labels {
		opt := a.prompt("Option " + label + ": ")
		if opt == "" {
			return false
		}
		q.Options = append(q.Options, label+". "+opt)
	}
	ans := strings.ToUpper(a.prompt("Correct answer (A, B, C, or D): "))
	for _, label := range labels {
		if ans == label {
			q.CorrectAnswer = ans
			return true
		}
	}
	a.printf("Invalid answer.\n")
	return false
}

// --- assignment views ---

func (a *App) viewMyAssignments(ctx context.Context) {
	a.header("My Assignments")
	list, err := a.store.ListAssignments(ctx, assignment.ListOpts{TeacherID: a.user.ID, IncludeInactive: true})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(list) == 0 {
		a.printf("You haven't created any assignments yet.\n")
		return
	}
	rows := make([][]string, len(list))
	for i, as := range list {
		rows[i] = []string{as.ID[:8], as.Title, strconv.Itoa(as.TotalPoints), formatDate(as.CreatedAt), activeLabel(as.Active)}
	}
	a.table([]string{"ID", "Title", "Points", "Created", "Status"}, rows)
	a.printf("\nTotal Assignments: %d\n", len(list))

	if a.confirm("View assignment details?") {
		prefix := a.prompt("Enter assignment ID: ")
		for _, as := range list {
			if strings.HasPrefix(as.ID, prefix) {
				a.showAssignmentDetails(ctx, as.ID)
				return
			}
		}
		a.printf("Assignment not found.\n")
	}
}

func (a *App) showAssignmentDetails(ctx context.Context, id string) {
	as, err := a.store.GetAssignmentFull(ctx, id)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.printf("\n--- Assignment Details ---\n")
	a.printf("Title: %s\n", as.Title)
	if as.Description != "" {
		a.printf("Description: %s\n", as.Description)
	}
	a.printf("Total Points: %d\nQuestions: %d\nCreated: %s\n",
		as.TotalPoints, len(as.Questions), formatDate(as.CreatedAt))

	for i, q := range as.Questions {
		a.printf("\nQuestion %d (%d points):\n", i+1, q.Points)
		a.printf("Type: %s\nText: %s\n", q.Type, q.Text)
		if q.Type == assignment.TypeObjective {
			for _, opt := range q.Options {
				a.printf("  %s\n", opt)
			}
			a.printf("Correct Answer: %s\n", q.CorrectAnswer)
		}
	}
}

func (a *App) viewSubmissions(ctx context.Context) {
	a.header("Student Submissions")
	list, err := a.store.ListAssignments(ctx, assignment.ListOpts{TeacherID: a.user.ID})
	if err != nil || len(list) == 0 {
		a.printf("You haven't created any assignments yet.\n")
		return
	}
	rows := make([][]string, len(list))
	for i, as := range list {
		rows[i] = []string{as.ID[:8], as.Title, strconv.Itoa(as.TotalPoints), formatDate(as.CreatedAt)}
	}
	a.table([]string{"ID", "Title", "Points", "Created"}, rows)

	prefix := a.prompt("\nEnter assignment ID to view submissions: ")
	var target string
	for _, as := range list {
		if strings.HasPrefix(as.ID, prefix) {
			target = as.ID
			break
		}
	}
	if target == "" {
		a.printf("Assignment not found.\n")
		return
	}

	subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{AssignmentID: target})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(subs) == 0 {
		a.printf("No submissions found for this assignment.\n")
		return
	}
	for _, s := range subs {
		pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
		a.printf("\nStudent: %s\nScore: %s\nPercentage: %.1f%%\nSubmitted: %s\n",
			s.StudentName, formatScore(s.TotalScore, s.MaxScore), pct, formatDate(s.SubmittedAt))
	}

	if a.confirm("\nView detailed submission feedback?") {
		name := strings.ToLower(a.prompt("Enter student name: "))
		for _, s := range subs {
			if strings.ToLower(s.StudentName) == name {
				a.showSubmissionDetail(ctx, s.ID, true)
				return
			}
		}
		a.printf("No submission found for that student.\n")
	}
}

func (a *App) showSubmissionDetail(ctx context.Context, id string, showKeys bool) {
	s, err := a.store.GetSubmission(ctx, id)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
	a.printf("\n--- Detailed Submission ---\n")
	if s.StudentName != "" {
		a.printf("Student: %s\n", s.StudentName)
	}
	a.printf("Assignment: %s\n", s.Title)
	a.printf("Total Score: %s\nPercentage: %.1f%%\nSubmitted: %s\n",
		formatScore(s.TotalScore, s.MaxScore), pct, formatDate(s.SubmittedAt))

	for i, ans := range s.Answers {
		a.printf("\n--- Question %d (%d points) ---\n", i+1, ans.Points)
		a.printf("Question: %s\n", ans.QuestionText)
		if ans.StudentAnswer != "" {
			a.printf("Student Answer: %s\n", ans.StudentAnswer)
		} else {
			a.printf("Student Answer: No answer provided\n")
		}
		if showKeys && ans.QuestionType == assignment.TypeObjective && ans.CorrectAnswer != "" {
			a.printf("Correct Answer: %s\n", ans.CorrectAnswer)
		}
		a.printf("Points Earned: %s\nFeedback: %s\n", formatScore(ans.Score, ans.Points), ans.Feedback)
	}
}

// --- reports ---

func (a *App) reportsMenu(ctx context.Context) {
	for {
		a.printf("\n--- Available Reports ---\n")
		a.printf("1. Class Performance Summary\n")
		a.printf("2. Individual Student Report\n")
		a.printf("3. Assignment Performance Analysis\n")
		a.printf("4. My Students Overview\n")
		a.printf("5. Back to Main Menu\n")

		switch a.prompt("Select report type (1-5): ") {
		case "1":
			a.classSummary(ctx)
		case "2":
			a.studentReport(ctx)
		case "3":
			a.assignmentAnalysis(ctx)
		case "4":
			a.studentsOverview(ctx)
		case "5":
			return
		default:
			a.printf("Invalid choice.\n")
		}
	}
}

func (a *App) classSummary(ctx context.Context) {
	a.printf("\n--- Class Performance Summary ---\n")
	subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{TeacherID: a.user.ID})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(subs) == 0 {
		a.printf("No submissions to analyze yet.\n")
		return
	}
	recs := toRecords(subs)
	a.printClassStats(stats.ClassStatistics(recs))
	a.printDistribution(recs)
}

func (a *App) studentReport(ctx context.Context) {
	a.printf("\n--- Individual Student Report ---\n")
	a.listStudents(ctx, a.user.ID)
	prefix := a.prompt("\nEnter student ID: ")
	students, err := a.users.ListStudents(ctx, a.user.ID)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	for _, s := range students {
		if strings.HasPrefix(s.ID, prefix) {
			a.printStudentPerformance(ctx, s.ID, s.Name)
			return
		}
	}
	a.printf("Student not found.\n")
}

func (a *App) printStudentPerformance(ctx context.Context, studentID, name string) {
	subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{
		StudentID: studentID, TeacherID: a.user.ID,
	})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(subs) == 0 {
		a.printf("No submissions found for %s.\n", name)
		return
	}

	a.printf("\n--- Performance Report for %s ---\n", name)
	rows := make([][]string, len(subs))
	for i, s := range subs {
		pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
		rows[i] = []string{
			s.Title, formatScore(s.TotalScore, s.MaxScore),
			fmt.Sprintf("%.1f%%", pct), stats.GradeLetter(pct), formatDate(s.SubmittedAt),
		}
	}
	a.table([]string{"Assignment", "Score", "Percentage", "Grade", "Date"}, rows)

	recs := toRecords(subs)
	pct := stats.OverallPercentage(recs)
	a.printf("\nOverall Performance: %.1f%% (Grade %s - %s)\n",
		pct, stats.GradeLetter(pct), stats.GradeDescription(pct))
	a.printf("Assignments Completed: %d\n", len(subs))
}

func (a *App) assignmentAnalysis(ctx context.Context) {
	a.printf("\n--- Assignment Performance Analysis ---\n")
	list, err := a.store.ListAssignments(ctx, assignment.ListOpts{TeacherID: a.user.ID})
	if err != nil || len(list) == 0 {
		a.printf("No assignments created yet.\n")
		return
	}
	rows := make([][]string, len(list))
	for i, as := range list {
		rows[i] = []string{as.ID[:8], as.Title, strconv.Itoa(as.TotalPoints), formatDate(as.CreatedAt)}
	}
	a.table([]string{"ID", "Title", "Points", "Created"}, rows)

	prefix := a.prompt("\nEnter assignment ID: ")
	for _, as := range list {
		if strings.HasPrefix(as.ID, prefix) {
			a.analyzeAssignment(ctx, as)
			return
		}
	}
	a.printf("Assignment not found.\n")
}

func (a *App) analyzeAssignment(ctx context.Context, as assignment.Assignment) {
	subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{AssignmentID: as.ID})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	a.printf("\n--- Analysis for '%s' ---\n", as.Title)
	if len(subs) == 0 {
		a.printf("No submissions found for this assignment.\n")
		return
	}
	a.printClassStats(stats.ClassStatistics(toRecords(subs)))

	a.printf("\n--- Individual Scores ---\n")
	rows := make([][]string, len(subs))
	for i, s := range subs {
		pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
		rows[i] = []string{
			s.StudentName, formatScore(s.TotalScore, s.MaxScore),
			fmt.Sprintf("%.1f%%", pct), stats.GradeLetter(pct),
		}
	}
	a.table([]string{"Student", "Score", "Percentage", "Grade"}, rows)
}

func (a *App) studentsOverview(ctx context.Context) {
	a.printf("\n--- My Students Overview ---\n")
	students, err := a.users.ListStudents(ctx, a.user.ID)
	if err != nil || len(students) == 0 {
		a.printf("You haven't added any students yet.\n")
		return
	}

	rows := make([][]string, 0, len(students))
	for _, s := range students {
		subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{
			StudentID: s.ID, TeacherID: a.user.ID,
		})
		if err != nil {
			a.printf("Error: %v\n", err)
			return
		}
		avg, bestGrade := "N/A", "N/A"
		if len(subs) > 0 {
			recs := toRecords(subs)
			avg = fmt.Sprintf("%.1f%%", stats.OverallPercentage(recs))
			if best, ok := stats.Best(recs); ok && best.MaxScore > 0 {
				bestGrade = stats.GradeLetter(stats.Percentage(best.TotalScore, best.MaxScore))
			}
		}
		rows = append(rows, []string{s.Name, s.LoginCode, strconv.Itoa(len(subs)), avg, bestGrade})
	}
	a.table([]string{"Name", "Login Code", "Submissions", "Avg Score", "Best Grade"}, rows)
}

func (a *App) assignmentStatistics(ctx context.Context) {
	a.header("Assignment Statistics")
	list, err := a.store.ListAssignments(ctx, assignment.ListOpts{TeacherID: a.user.ID})
	if err != nil || len(list) == 0 {
		a.printf("No assignments created yet.\n")
		return
	}

	rows := make([][]string, 0, len(list))
	for _, as := range list {
		subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{AssignmentID: as.ID})
		if err != nil {
			a.printf("Error: %v\n", err)
			return
		}
		recs := toRecords(subs)
		avg := "N/A"
		if len(subs) > 0 {
			avg = fmt.Sprintf("%.1f%%", stats.OverallPercentage(recs))
		}
		rows = append(rows, []string{
			as.ID[:8], as.Title, strconv.Itoa(len(subs)), avg, stats.AssignmentDifficulty(recs),
		})
	}
	a.table([]string{"ID", "Title", "Submissions", "Avg Score", "Difficulty"}, rows)
	a.printf("\nTotal Assignments: %d\n", len(list))
}

func (a *App) changePassword(ctx context.Context) {
	oldPw := a.prompt("Current password: ")
	newPw := a.prompt("New password: ")
	if err := a.users.ChangePassword(ctx, a.user.ID, oldPw, newPw); err != nil {
		a.printf("Failed: %v\n", err)
		return
	}
	a.printf("Password changed.\n")
}
