// Package api serves the admin HTTP surface: liveness, readiness and the stats report.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/stats"
	"github.com/foxseedlab/sprachpartner/internal/webhook"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxStatsDays = 366

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	store       Pinger
	reporter    *stats.Reporter
	token       string
	defaultDays int
}

func NewHandler(store Pinger, reporter *stats.Reporter, token string, defaultDays int) *Handler {
	return &Handler{store: store, reporter: reporter, token: token, defaultDays: defaultDays}
}

// StatsResponse is the body of GET /admin/stats.
type StatsResponse struct {
	Report        string               `json:"report"`
	GeneratedAt   time.Time            `json:"generated_at"`
	UsersTotal    int64                `json:"users_total"`
	MessagesTotal int64                `json:"messages_total"`
	TextMessages  int64                `json:"text_messages"`
	VoiceMessages int64                `json:"voice_messages"`
	Days          []webhook.DayPayload `json:"days"`
}

// Router builds the chi router. /admin routes exist only when a token is configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/ready", h.Ready)
	if h.token != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireToken)
			r.Get("/stats", h.Stats)
		})
	}
	return r
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		slog.Warn("readiness check failed", "error", err)
		Error(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	days := h.defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxStatsDays {
			Error(w, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
		days = n
	}
	snap, err := h.reporter.Snapshot(r.Context(), days)
	if err != nil {
		slog.Error("failed to build stats snapshot", "error", err)
		Error(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	p := stats.Payload(snap)
	JSON(w, http.StatusOK, StatsResponse{
		Report:        p.Text,
		GeneratedAt:   p.GeneratedAt,
		UsersTotal:    p.UsersTotal,
		MessagesTotal: p.MessagesTotal,
		TextMessages:  p.TextMessages,
		VoiceMessages: p.VoiceMessages,
		Days:          p.Days,
	})
}

func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
