package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/statuspng/statuspng/db"
	"github.com/statuspng/statuspng/internal/auth"
	"github.com/statuspng/statuspng/internal/checker"
	"github.com/statuspng/statuspng/internal/handlers"
	"github.com/statuspng/statuspng/internal/models"
	"github.com/statuspng/statuspng/internal/probe"
	"github.com/statuspng/statuspng/internal/report"
	"github.com/statuspng/statuspng/internal/router"
	"github.com/statuspng/statuspng/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	gdb, err := db.Connect(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	st := store.NewDB(gdb)

	checks := checker.NewService(st, probe.NewProber(), report.NewGenerator())
	checks.OnCheck = func(monitor models.Monitor, result checker.Result) {
		handlers.BroadcastRefresh(monitor.UserID, monitor.ID, result.Status)
	}

	h := handlers.NewHandler(st, checks)
	r := router.NewRouter(h, st)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
