// Package api provides the HTTP surface for one bakery session.
// GET endpoints are public (read-only observation of the game state).
// POST endpoints mutate the aggregate and require a bearer token when an
// admin key is configured.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/mini-bakery/internal/bakery"
	"github.com/talgya/mini-bakery/internal/engine"
	"github.com/talgya/mini-bakery/internal/event"
	"github.com/talgya/mini-bakery/internal/goods"
	"github.com/talgya/mini-bakery/internal/happening"
	"github.com/talgya/mini-bakery/internal/persistence"
)

// Server serves one bakery session over HTTP. The aggregate is not
// reentrant, so every access (handlers and the clock callback alike) runs
// under a single mutex.
type Server struct {
	Bakery    *bakery.Bakery
	Clock     *engine.Clock
	DB        *persistence.DB
	SessionID uuid.UUID
	Port      int
	AdminKey  string // Bearer token for POST endpoints. Empty = POST disabled.

	// Roll yields floats in [0, 1) for the daily happening. Nil disables
	// happenings (days advance with only the regular bookkeeping).
	Roll happening.Source

	mu sync.Mutex
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	actionLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/state", s.handleState)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/missions", s.handleMissions)

	// Action endpoints (POST, mutate the aggregate).
	mux.HandleFunc("/api/v1/action", s.adminOnly(RateLimitMiddleware(actionLimiter, s.handleAction)))
	mux.HandleFunc("/api/v1/day", s.adminOnly(s.handleDay))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list of allowed origins; localhost dev
// servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request carries the admin token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "action endpoints disabled (no BAKERY_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.Bakery.Snapshot()
	s.mu.Unlock()
	writeJSON(w, snap)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	s.mu.Lock()
	events := s.Bakery.Log.Recent(limit)
	s.mu.Unlock()
	writeJSON(w, events)
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.Bakery.Snapshot()
	s.mu.Unlock()
	writeJSON(w, snap.Missions)
}

type actionRequest struct {
	Action      string  `json:"action"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Impulse     bool    `json:"impulse"`
	Pastry      string  `json:"pastry"`
	MissionID   string  `json:"mission_id"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var e event.Event
	switch req.Action {
	case "save_money":
		e = s.Bakery.SaveMoney(req.Amount)
	case "log_purchase":
		e = s.Bakery.LogPurchase(req.Description, req.Amount, req.Impulse)
	case "resist_purchase":
		e = s.Bakery.ResistPurchase(req.Description)
	case "pay_supplier":
		e = s.Bakery.PaySupplier()
	case "miss_payment":
		e = s.Bakery.MissSupplierPayment()
	case "bake":
		p, err := goods.ParsePastry(req.Pastry)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e = s.Bakery.Bake(p)
	case "complete_mission":
		e = s.Bakery.CompleteMission(req.MissionID)
	case "invest":
		e = s.Bakery.Invest(req.Amount)
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
		return
	}

	s.persistLocked()
	writeJSON(w, map[string]any{"event": e, "day": s.Bakery.Day})
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.AdvanceDay())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Clock == nil {
		http.Error(w, "day clock not running", http.StatusServiceUnavailable)
		return
	}

	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Clock.Speed = req.Speed
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Clock.Speed})
}

// AdvanceDay runs the end-of-day sequence under the session lock: overnight
// bookkeeping, then the daily happening when a roll source is set. Wired as
// the clock's OnDay callback.
func (s *Server) AdvanceDay() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.Bakery.NewDay()
	if s.Roll != nil {
		h := happening.Roll(s.Roll)
		events = append(events, s.Bakery.ApplyHappening(h))
	}

	slog.Info("day advanced", "day", s.Bakery.Day, "coins", s.Bakery.Coins, "stress", s.Bakery.StressMode)
	s.persistLocked()
	return events
}

// persistLocked flushes state and new events. Callers must hold s.mu.
func (s *Server) persistLocked() {
	if s.DB == nil {
		return
	}
	if err := s.DB.SaveGame(s.SessionID, s.Bakery); err != nil {
		slog.Error("save failed", "error", err, "session", s.SessionID)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}
