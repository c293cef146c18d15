package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the merged export",
	Long: `Publish merges the dataset with the vendor columns, backs up the
previous export, and writes the result to blob storage and the
transfer endpoint.`,
	RunE: runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.Publish(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("published %d records across %d categories\n", res.Records, res.Categories)
	if !res.VendorMerged {
		slog.Warn("vendor columns were not merged")
	}
	if res.BackupCreated {
		slog.Info("previous export backed up", "key", res.BackupKey)
	}
	for _, w := range res.Warnings {
		slog.Warn(w)
	}
	return nil
}
