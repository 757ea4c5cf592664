package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/takarapp/accounts-api/internal/application/account"
	"github.com/takarapp/accounts-api/internal/application/passwordreset"
	"github.com/takarapp/accounts-api/internal/application/token"
	"github.com/takarapp/accounts-api/internal/config"
	"github.com/takarapp/accounts-api/internal/transport/http/handler"
	appmiddleware "github.com/takarapp/accounts-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	// Clients hit these endpoints both with and without trailing slashes.
	r.Use(chimiddleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	accountSvc := account.NewService(deps.UserRepo)
	tokenSvc := token.NewService(deps.UserRepo, deps.JWTProvider)
	resetSvc := passwordreset.NewService(passwordreset.ServiceDeps{
		UserRepo:  deps.UserRepo,
		CodeRepo:  deps.ResetCodeRepo,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
	})

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(accountSvc)
	tokenH := handler.NewTokenHandler(tokenSvc)
	resetH := handler.NewPasswordResetHandler(resetSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/signup", accountH.Signup)
		r.Post("/token", tokenH.Obtain)
		r.Post("/token/refresh", tokenH.Refresh)
		r.Post("/forgot-password", resetH.Forgot)
		r.Post("/verify-code", resetH.Verify)
		r.Post("/reset-password", resetH.Reset)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.Get("/me", accountH.Me)
			r.Post("/change-password", accountH.ChangePassword)
		})
	})

	return r
}
