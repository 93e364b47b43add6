// Package api serves the bot's small HTTP surface: health and stats for
// uptime monitors and the hosting platform's checks.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/economy"
	"github.com/mettlex/literally-discord-bot-sub000/store"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	Sessions  *store.SessionStore
	Economy   economy.Store
	Log       *logrus.Logger
	StartedAt time.Time
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(sessions *store.SessionStore, eco economy.Store, log *logrus.Logger) *Handler {
	return &Handler{
		Sessions:  sessions,
		Economy:   eco,
		Log:       log,
		StartedAt: time.Now(),
	}
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// Healthz answers liveness probes.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// StatsResponse is the JSON structure for /stats.
type StatsResponse struct {
	UptimeSeconds  int64                      `json:"uptime_seconds"`
	ActiveSessions int                        `json:"active_sessions"`
	Leaderboard    []economy.LeaderboardEntry `json:"leaderboard,omitempty"`
}

// Stats returns uptime, active game session count, and the top of the coin
// leaderboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}

	resp := StatsResponse{
		UptimeSeconds: int64(time.Since(h.StartedAt).Seconds()),
	}
	if h.Sessions != nil {
		resp.ActiveSessions = h.Sessions.ActiveCount()
	}
	if h.Economy != nil {
		entries, err := h.Economy.ListLeaderboard(r.Context(), limit)
		if err != nil {
			h.Log.WithField("tag", "api").WithError(err).Error("loading leaderboard")
			http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
			return
		}
		resp.Leaderboard = entries
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.WithField("tag", "api").WithError(err).Error("encoding stats response")
	}
}

// Mux returns an http.ServeMux with all API routes registered.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/stats", h.Stats)
	return mux
}
