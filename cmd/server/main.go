package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glossa-trainer/backend/internal/api"
	"github.com/glossa-trainer/backend/internal/grader"
	"github.com/glossa-trainer/backend/internal/infrastructure/config"
	"github.com/glossa-trainer/backend/internal/mastery"
	"github.com/glossa-trainer/backend/internal/service"
	"github.com/glossa-trainer/backend/internal/store"
	"github.com/glossa-trainer/backend/internal/wordpool"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	pool, err := wordpool.Load(cfg.WordsFile)
	if err != nil {
		logger.Error("failed to load word list", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded word list", "words", pool.Total(), "lessons", len(pool.Lessons()))

	ledger, err := mastery.Open(cfg.MasteryDB)
	if err != nil {
		logger.Error("failed to open mastery ledger", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	sessions := store.NewSessionStore(grader.NewMatcher())
	driver := service.NewDriver(sessions, ledger, pool, logger, cfg.DefaultTimePerQuestion)
	handler := api.NewHandler(driver, ledger, pool, logger, cfg.SourceLanguage, cfg.TargetLanguage)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
