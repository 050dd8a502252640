package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/quizforge/quizd/internal/api/http"
	"github.com/quizforge/quizd/internal/auth"
	"github.com/quizforge/quizd/internal/config"
	"github.com/quizforge/quizd/internal/db"
	"github.com/quizforge/quizd/internal/quiz"
	"github.com/quizforge/quizd/internal/users"
)

func main() {
	cfg := config.FromEnv()

	subjects, err := quiz.ParseSubjectMapping(cfg.SubjectTests)
	if err != nil {
		log.Fatalf("SUBJECT_TESTS: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	userStore := users.NewStore(dbh)
	quizStore := quiz.NewSQLStore(dbh, subjects, cfg.AllowRepeatSubmissions)

	opts := api.RouterOpts{RequireOldPassword: cfg.RequireOldPasswordOnReset}
	if cfg.EnableTokenAuth {
		opts.Tokens = auth.NewService(cfg.AuthSecret)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Mount("/", api.NewRouter(userStore, quizStore, opts))

	log.Printf("listening on %s (db=%s, origin=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.FrontendOrigin)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
