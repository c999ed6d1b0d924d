package http

import (
	"log/slog"
	"os"

	"github.com/gajihub/payroll-tax-backend-go/internal/handler/http/middleware"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, authHandler AuthHandler, taxHandler TaxHandler, env string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-tax"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/token", authHandler.Token)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/tax", func(r chi.Router) {
				r.Post("/calculate", taxHandler.Calculate)
				r.Post("/calculate/batch", taxHandler.CalculateBatch)
				r.Post("/rebuild", taxHandler.RebuildYear)
				r.Get("/summaries/{employeeID}/{year}", taxHandler.GetSummary)
				r.Get("/settings", taxHandler.GetSettings)

				r.Route("/bpjs", func(r chi.Router) {
					r.Post("/calculate", taxHandler.CalculateBPJS)
				})
			})
		})
	})
	return r
}
