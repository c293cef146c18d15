package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pimops/pigman/internal/session"
	"github.com/pimops/pigman/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Serve the entry tool's HTTP API. Operators open their own sessions
with their own SAS tokens, so the server itself needs no storage
credential.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"statuses", cfg.Dataset.Statuses,
		"transfer_enabled", cfg.Transfer.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	sessions := session.NewManager()
	server := web.NewServer(cfg, sessions, slog.Default())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		sessions.CloseAll()
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
