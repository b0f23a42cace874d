// Command bakerysim runs the bakery economy game as a long-lived server:
// state in SQLite, actions and snapshots over HTTP, days advanced by the
// clock.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/talgya/mini-bakery/internal/api"
	"github.com/talgya/mini-bakery/internal/bakery"
	"github.com/talgya/mini-bakery/internal/config"
	"github.com/talgya/mini-bakery/internal/engine"
	"github.com/talgya/mini-bakery/internal/happening"
	"github.com/talgya/mini-bakery/internal/mission"
	"github.com/talgya/mini-bakery/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("bad configuration", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or create session ────────────────────────────────────────
	var b *bakery.Bakery
	sessionID, err := db.LatestSessionID()
	if err == nil {
		b, err = db.LoadSession(sessionID)
		if err != nil {
			slog.Error("failed to load session", "error", err, "session", sessionID)
			os.Exit(1)
		}
		slog.Info("session restored",
			"session", sessionID,
			"name", b.Name,
			"day", b.Day,
			"coins", b.Coins,
		)
		if recent, err := db.RecentEvents(sessionID, 5); err == nil {
			for _, e := range recent {
				slog.Info("recent event", "type", e.Type, "message", e.Message)
			}
		}
	} else {
		sessionID = uuid.New()
		b = bakery.New(cfg.BakeryName)
		for _, m := range mission.Defaults() {
			b.AddMission(m)
		}
		if err := db.SaveGame(sessionID, b); err != nil {
			slog.Error("initial save failed", "error", err)
		}
		slog.Info("new session created", "session", sessionID, "name", b.Name)
	}

	// ── HTTP API + day clock ──────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("BAKERY_ADMIN_KEY not set, action POST endpoints will be disabled")
	}

	clock := engine.NewClock(cfg.DayInterval)
	server := &api.Server{
		Bakery:    b,
		Clock:     clock,
		DB:        db,
		SessionID: sessionID,
		Port:      cfg.Port,
		AdminKey:  cfg.AdminKey,
		Roll:      happening.CryptoFloat,
	}
	clock.OnDay = func() { server.AdvanceDay() }
	server.Start()

	// ── Run ───────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		clock.Stop()
	}()

	fmt.Printf("\n%s is open: day %d, %d coins in the till.\n", b.Name, b.Day, b.Coins)
	fmt.Printf("API: http://localhost:%d/api/v1/state\n", cfg.Port)
	if cfg.AutoDay {
		fmt.Println("Day clock running... (Ctrl+C to stop)")
		clock.Run()
	} else {
		fmt.Println("Day clock paused; advance via POST /api/v1/day. (Ctrl+C to stop)")
		clock.Speed = 0
		clock.Run()
	}

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveGame(sessionID, b); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Bakery closed. Session saved.")
}
