package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/session"
)

var (
	ingestCategory string
	ingestStatus   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <workbook.xlsx>",
	Short: "Map a PIG workbook and accept it into the dataset",
	Long: `Ingest maps one PIG workbook through the template cell positions,
validates it, and commits the record under the given category and
status. The workbook itself is archived to the PIG repository.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCategory, "category", "", "category for the record (required)")
	ingestCmd.Flags().StringVar(&ingestStatus, "status", schema.StatusActive, "status partition for the record")
	ingestCmd.MarkFlagRequired("category")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	workbook, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	preview, err := sess.Preview(workbook)
	if err != nil {
		return err
	}
	item, _ := preview.Record.Value(schema.FieldItem)
	slog.Info("workbook mapped",
		"item", item,
		"mapped", preview.Summary.Mapped,
		"defaulted", preview.Summary.Defaulted,
	)
	for _, v := range preview.Violations {
		slog.Warn("validation", "field", v.Field, "message", v.Message)
	}

	res, err := sess.Accept(ctx, session.AcceptRequest{
		Record:   preview.Record,
		Category: ingestCategory,
		Status:   ingestStatus,
		Workbook: workbook,
	})
	if err != nil {
		return err
	}

	verb := "inserted"
	if res.Replaced {
		verb = "replaced"
	}
	fmt.Printf("%s item %s in %s\n", verb, res.Item, res.Status)
	for _, w := range res.Warnings {
		slog.Warn(w)
	}
	return nil
}
