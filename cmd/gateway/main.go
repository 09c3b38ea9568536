package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	api "github.com/examind-io/examind/internal/api/http"
	"github.com/examind-io/examind/internal/audit"
	auth "github.com/examind-io/examind/internal/auth/middleware"
	"github.com/examind-io/examind/internal/config"
	"github.com/examind-io/examind/internal/db"
	"github.com/examind-io/examind/internal/exam"
	"github.com/examind-io/examind/internal/logging"
	"github.com/examind-io/examind/internal/rbac"
	"github.com/examind-io/examind/internal/scoring"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log := logging.New(cfg)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}

	engine := scoring.NewEngine(log.Named("scoring"))
	store := exam.NewSQLStore(dbh, engine)
	events := audit.NewLog(dbh)
	svc := exam.NewService(store, engine, events, log.Named("exam"))

	authSvc := auth.NewAuthService(cfg.AuthSecret)

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

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.UploadExamHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", api.GetExamHandler(store))
		pr.With(rbac.Require("exam:list")).
			Get("/exams", api.ListExamsHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}/score", api.ExamScoreHandler(svc))

		pr.With(rbac.Require("autoeval:configure")).
			Put("/exams/{examID}/autoevaluation", api.SetAutoEvaluationHandler(store))
		pr.With(rbac.Require("autoeval:configure")).
			Delete("/exams/{examID}/autoevaluation", api.ClearAutoEvaluationHandler(store))

		pr.With(rbac.Require("assessment:create")).
			Post("/assessments", api.CreateAssessmentHandler(store))
		pr.With(rbac.RequireAny("assessment:view-own", "assessment:view-all")).
			Get("/assessments/{assessmentID}", api.GetAssessmentHandler(store))
		pr.With(rbac.Require("assessment:view-all")).
			Get("/assessments", api.ListAssessmentsHandler(store))
		pr.With(rbac.RequireAny("assessment:view-own", "assessment:view-all")).
			Get("/assessments/{assessmentID}/score", api.AssessmentScoreHandler(svc))

		pr.With(rbac.Require("assessment:grade")).
			Put("/assessments/{assessmentID}/questions/{sectionQuestionID}/force-score", api.ForceScoreHandler(svc))
		pr.With(rbac.Require("assessment:grade")).
			Post("/assessments/{assessmentID}/autoevaluate", api.AutoEvaluateHandler(svc))
		pr.With(rbac.Require("assessment:grade")).
			Put("/assessments/{assessmentID}/grade", api.GradeHandler(svc))
		pr.With(rbac.Require("assessment:record")).
			Put("/assessments/{assessmentID}/record", api.RecordHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("db", cfg.DBDriver))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
