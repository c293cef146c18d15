package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pimops/pigman/internal/config"
	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/logging"
	"github.com/pimops/pigman/internal/session"
)

var (
	cfg      *config.Config
	sasToken string
)

var rootCmd = &cobra.Command{
	Use:   "pigman",
	Short: "Manage Product Information Guide data",
	Long: `pigman ingests PIG workbooks into the shared dataset, serves the
entry tool's JSON API, and publishes the merged export to blob storage
and the transfer endpoint.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI and exits non-zero on failure. Classified errors get
// an operator-facing hint line after cobra's own error report.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errs.KindOf(err) != errs.KindUnknown {
			fmt.Fprintln(os.Stderr, errs.FormatUserError(err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sasToken, "token", "", "SAS token for blob storage (defaults to AZURE_SAS_TOKEN)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(publishCmd)
}

// loadConfig reads .env and the environment, then configures logging.
// Overload wins over pre-set variables so a local .env behaves the same in
// every shell.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return nil
}

// openSession connects to the configured endpoints for a one-shot command.
// The token comes from the --token flag or the environment.
func openSession(ctx context.Context) (*session.Session, error) {
	token := sasToken
	if token == "" {
		token = cfg.Azure.SASToken
	}
	if token == "" {
		return nil, errors.New("a SAS token is required: pass --token or set AZURE_SAS_TOKEN")
	}

	sess, err := session.Connect(ctx, cfg, token, slog.Default())
	if err != nil {
		return nil, err
	}
	for _, w := range sess.Warnings() {
		slog.Warn(w)
	}
	return sess, nil
}
