package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/deepakranpise0/vulse-backend/internal/api/http"
	"github.com/deepakranpise0/vulse-backend/internal/auth"
	authmw "github.com/deepakranpise0/vulse-backend/internal/auth/middleware"
	"github.com/deepakranpise0/vulse-backend/internal/config"
	"github.com/deepakranpise0/vulse-backend/internal/db"
	"github.com/deepakranpise0/vulse-backend/internal/journey"
	"github.com/deepakranpise0/vulse-backend/internal/quiz"
	"github.com/deepakranpise0/vulse-backend/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	quizStore := quiz.NewSQLStore(dbh)
	quizSvc := quiz.NewService(quizStore)
	submitSvc := quiz.NewSubmissionService(quizStore)

	authSvc := authmw.NewAuthService(cfg.JWTSecret)
	userSvc := auth.NewService(auth.NewSQLUserStore(dbh), authSvc)

	journeyRepo := journey.NewRepo(dbh)

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
	r.Use(journey.Middleware(journeyRepo, authSvc))

	r.Post("/api/users/login", api.LoginHandler(userSvc))

	// Protected API (JWT → role from DB → rbac)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))
		pr.Use(authmw.AttachRole(dbh))

		pr.With(rbac.Require("users:create")).
			Post("/api/users", api.CreateUserHandler(userSvc))
		pr.With(rbac.Require("users:list")).
			Get("/api/users", api.ListUsersHandler(userSvc))

		pr.With(rbac.Require("quiz:view")).
			Get("/api/quizzes", api.ListQuizzesHandler(quizSvc))
		pr.With(rbac.Require("quiz:create")).
			Post("/api/quizzes", api.CreateQuizHandler(quizSvc))
		pr.With(rbac.Require("quiz:update")).
			Put("/api/quizzes/{id}", api.UpdateQuizHandler(quizSvc))
		pr.With(rbac.Require("quiz:delete")).
			Delete("/api/quizzes/{id}", api.DeleteQuizHandler(quizSvc))

		pr.With(rbac.RequireAny("results:view-own", "results:view-all")).
			Get("/api/quizzes/results", api.ResultsHandler(submitSvc))
		pr.With(rbac.Require("quiz:submit")).
			Post("/api/quizzes/{id}", api.SubmitQuizHandler(submitSvc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
