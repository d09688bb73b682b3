package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/debtflyhq/debtfly/internal/api"
	"github.com/debtflyhq/debtfly/internal/auth"
	"github.com/debtflyhq/debtfly/internal/config"
	"github.com/debtflyhq/debtfly/internal/ledger"
	"github.com/debtflyhq/debtfly/internal/postcode"
	"github.com/debtflyhq/debtfly/internal/store"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "debtfly",
	Short: "Debtfly - Client Onboarding Service",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	ldg := ledger.New(db)

	var sender auth.EmailSender
	if cfg.Simulation.Enabled {
		sender = auth.NewSimulatedSender(
			time.Duration(cfg.Simulation.MinDelay),
			time.Duration(cfg.Simulation.MaxDelay))
	} else {
		sender = auth.NewSimulatedSender(0, 0)
	}
	magic := auth.NewService(db, sender, auth.LoadConfigFromEnv())
	sessions := auth.NewSessionIssuer(
		[]byte(cfg.Auth.SessionSecret),
		time.Duration(cfg.Auth.SessionTTL))

	handler := api.NewHandler(ldg, magic, sessions, postcode.NewDirectory(), Version, config.DevMode())
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called
		// gracefully. Anything else is a real failure and should stop the
		// process.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
