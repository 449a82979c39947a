package routes

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/whoznexx/sports-portal/handlers"
	"github.com/whoznexx/sports-portal/metrics"
	"github.com/whoznexx/sports-portal/middleware"
	"github.com/whoznexx/sports-portal/models"
)

func SetupRoutes(
	router *chi.Mux,
	gate *middleware.SessionGate,
	pagesHandler *handlers.PagesHandler,
	authHandler *handlers.AuthHandler,
	registrationHandler *handlers.RegistrationHandler,
	coachHandler *handlers.CoachHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
	dbConn *sql.DB,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Гейт стоит перед каждой страницей и каждым API-запросом.
	router.Use(gate.Gate)

	// Страницы
	router.Get("/", pagesHandler.Landing)
	router.Get("/auth", pagesHandler.Auth)
	router.Get("/sports", pagesHandler.Sports)
	router.Get("/register", pagesHandler.Register)
	router.Get("/coach-signup", pagesHandler.CoachSignup)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/admin", pagesHandler.Admin)
	})

	// Аутентификация
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signout", authHandler.SignOut)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Get("/confirm-email", authHandler.ConfirmEmail)
		r.Get("/session", authHandler.Session)
	})

	// Регистрация детей (нужна сессия)
	router.Route("/api/kids", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", registrationHandler.CreateKid)
		r.Get("/", registrationHandler.ListKids)
	})

	// Публичная форма тренера
	router.Post("/api/coach-submissions", coachHandler.CreateSubmission)

	// Админские выборки: сессия + роль admin, проверенная по БД
	router.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/coach-submissions", adminHandler.ListCoachSubmissions)
		r.Get("/export", adminHandler.Export)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/ws/admin/coach-submissions", webSocketHandler.ServeCoachSubmissionsFeed)
	})

	// Служебные эндпоинты
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := dbConn.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", metrics.Handler())
}
