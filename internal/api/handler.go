package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/appboot/internal/config"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const pingTimeout = 2 * time.Second

// Pinger reports whether the backing database is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the operational endpoints from resolved settings.
type Handler struct {
	settings config.Settings
	db       Pinger

	clock     func() time.Time
	startedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(settings config.Settings, db Pinger, opts ...HandlerOption) *Handler {
	h := &Handler{
		settings: settings,
		db:       db,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Database:  "ok",
		AppName:   h.settings.AppName,
		Timestamp: h.clock(),
	}
	resp.UptimeSeconds = int64(resp.Timestamp.Sub(h.startedAt).Seconds())

	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := configResponse{
		AppName:            h.settings.AppName,
		Environment:        h.settings.Environment,
		Debug:              h.settings.Debug,
		LogLevel:           h.settings.LogLevel,
		MaxContentLength:   h.settings.MaxContentLength,
		TrackModifications: h.settings.TrackModifications,
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status        string    `json:"status"`
	Database      string    `json:"database"`
	AppName       string    `json:"app_name"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// configResponse lists the settings safe to expose; the secret key and the
// database URI are deliberately absent.
type configResponse struct {
	AppName            string `json:"app_name"`
	Environment        string `json:"environment"`
	Debug              bool   `json:"debug"`
	LogLevel           string `json:"log_level"`
	MaxContentLength   int64  `json:"max_content_length"`
	TrackModifications bool   `json:"track_modifications"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
