package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DiagnosticsHandler serves the operational probe endpoints.
type DiagnosticsHandler struct {
	db          *sql.DB
	mongoClient *mongo.Client
	environment string
	logger      *zerolog.Logger
}

// NewDiagnosticsHandler creates a new DiagnosticsHandler.
func NewDiagnosticsHandler(
	db *sql.DB,
	mongoClient *mongo.Client,
	environment string,
	logger *zerolog.Logger,
) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		db:          db,
		mongoClient: mongoClient,
		environment: environment,
		logger:      logger,
	}
}

func (h *DiagnosticsHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}

// DBTest pings both stores and reports which are reachable.
func (h *DiagnosticsHandler) DBTest(w http.ResponseWriter, r *http.Request) {
	postgres := "ok"
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("postgres ping failed")
		postgres = "error: " + err.Error()
	}

	mongoStatus := "ok"
	if err := h.mongoClient.Ping(r.Context(), readpref.Primary()); err != nil {
		h.logger.Error().Err(err).Msg("mongo ping failed")
		mongoStatus = "error: " + err.Error()
	}

	status := http.StatusOK
	if postgres != "ok" || mongoStatus != "ok" {
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, map[string]any{
		"success":  status == http.StatusOK,
		"postgres": postgres,
		"mongodb":  mongoStatus,
	})
}

// ConfigCheck reports which optional integrations are configured without
// leaking any secret values.
func (h *DiagnosticsHandler) ConfigCheck(zeroBounceConfigured, smtpConfigured bool, frontendURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"environment": h.environment,
			"zerobounce":  zeroBounceConfigured,
			"smtp":        smtpConfigured,
			"frontendUrl": frontendURL,
		})
	}
}
