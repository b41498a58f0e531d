package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/emene-hs/smartgrade/internal/assignment"
	"github.com/emene-hs/smartgrade/internal/config"
	"github.com/emene-hs/smartgrade/internal/console"
	"github.com/emene-hs/smartgrade/internal/db"
	"github.com/emene-hs/smartgrade/internal/eventlog"
	"github.com/emene-hs/smartgrade/internal/grading"
	"github.com/emene-hs/smartgrade/internal/roster"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	users := roster.NewRepo(dbh)
	if cfg.SeedDefaults {
		err := users.Seed(context.Background(), []roster.DefaultTeacher{
			{Name: "Mr. Kevin", Username: "Kevin", Password: "password123"},
			{Name: "Mrs. Peace", Username: "Peace", Password: "password123"},
		})
		if err != nil {
			log.Fatalf("seed teachers: %v", err)
		}
	}

	store := assignment.NewSQLStore(dbh, cfg.DBDriver, grading.NewDefaultGrader(), eventlog.NewRepo(dbh))

	app := console.New(store, users, os.Stdin, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
