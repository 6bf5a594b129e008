package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RouterConfig carries the non-handler knobs the router needs.
type RouterConfig struct {
	ZeroBounceConfigured bool
	SMTPConfigured       bool
	FrontendURL          string
}

// NewRouter assembles the HTTP surface: auth orchestration, user CRUD and
// the operational probes.
func NewRouter(
	auth *AuthHandler,
	users *UsersHandler,
	diagnostics *DiagnosticsHandler,
	cfg RouterConfig,
	logger *zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(logger))
	r.Use(cors)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/forgot-password", auth.ForgotPassword)
		r.Post("/reset-password", auth.ResetPassword)
		r.Post("/check-user", auth.CheckUser)
		r.Post("/validate-email", auth.ValidateEmail)
		r.Post("/sync-verification", auth.SyncVerification)
		r.Get("/email-credits", auth.EmailCredits)
		r.Get("/check-email-config", auth.CheckEmailConfig)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", users.ListUsers)
		r.Get("/{id}", users.GetUser)
		r.Put("/{id}", users.UpdateUser)
		r.Delete("/{id}", users.DeleteUser)
	})

	r.Get("/api/health", diagnostics.Health)
	r.Get("/api/db-test", diagnostics.DBTest)
	r.Get("/api/config-check", diagnostics.ConfigCheck(
		cfg.ZeroBounceConfigured, cfg.SMTPConfigured, cfg.FrontendURL))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Ruta no encontrada")
	})

	return r
}
