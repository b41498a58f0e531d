package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/emene-hs/smartgrade/internal/api/http"
	"github.com/emene-hs/smartgrade/internal/assignment"
	auth "github.com/emene-hs/smartgrade/internal/auth/middleware"
	"github.com/emene-hs/smartgrade/internal/cache"
	"github.com/emene-hs/smartgrade/internal/config"
	"github.com/emene-hs/smartgrade/internal/db"
	"github.com/emene-hs/smartgrade/internal/eventlog"
	"github.com/emene-hs/smartgrade/internal/grading"
	"github.com/emene-hs/smartgrade/internal/rbac"
	"github.com/emene-hs/smartgrade/internal/roster"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	users := roster.NewRepo(dbh)
	if cfg.SeedDefaults {
		err := users.Seed(ctx, []roster.DefaultTeacher{
			{Name: "Mr. Kevin", Username: "Kevin", Password: "password123"},
			{Name: "Mrs. Peace", Username: "Peace", Password: "password123"},
		})
		if err != nil {
			log.Fatalf("seed teachers: %v", err)
		}
	}

	events := eventlog.NewRepo(dbh)
	grader := grading.NewDefaultGrader()
	store := assignment.NewSQLStore(dbh, cfg.DBDriver, grader, events)

	reports, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer reports.Close()

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, users))
	r.Post("/auth/login-code", auth.LoginCodeHandler(authSvc, users))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.AllowClaimFallback))

		// Assignments
		pr.With(rbac.Require("assignment:create")).
			Post("/assignments", api.CreateAssignmentHandler(store))
		pr.With(rbac.Require("assignment:view")).
			Get("/assignments", api.ListAssignmentsHandler(store))
		pr.With(rbac.Require("assignment:view")).
			Get("/assignments/{assignmentID}", api.GetAssignmentHandler(store))
		pr.With(rbac.Require("assignment:deactivate")).
			Delete("/assignments/{assignmentID}", api.DeactivateAssignmentHandler(store))

		// Submissions
		pr.With(rbac.Require("submission:create")).
			Post("/assignments/{assignmentID}/submissions", api.SubmitAnswersHandler(store, reports))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions", api.ListSubmissionsHandler(store))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions/{submissionID}", api.GetSubmissionHandler(store))

		// Reports
		pr.With(rbac.Require("report:view-all")).
			Get("/reports/class", api.ClassReportHandler(store, reports))
		pr.With(rbac.Require("report:view-all")).
			Get("/reports/assignments/{assignmentID}", api.AssignmentReportHandler(store, reports))
		pr.With(rbac.RequireAny("report:view-own", "report:view-all")).
			Get("/reports/students/{studentID}", api.StudentReportHandler(store, reports))

		// Roster (teacher/admin)
		pr.With(rbac.Require("student:manage")).
			Post("/students", api.AddStudentHandler(users, events))
		pr.With(rbac.Require("student:manage")).
			Get("/students", api.ListStudentsHandler(users))
		pr.With(rbac.Require("student:manage")).
			Delete("/students/{studentID}", api.DeactivateStudentHandler(users, events))

		// Account
		pr.With(rbac.Require("user:change_password")).
			Post("/users/me/password", api.ChangePasswordHandler(users))
		pr.Get("/users/me", api.MeHandler(users))

		// Admin-only activity log; only the wildcard role matches.
		pr.With(rbac.Require("events:view")).
			Get("/events", api.RecentEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s, cache=%v)",
		cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, reports.Enabled())
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
