package main

import (
	"context"
	"fmt"

	"crate/internal/formatter"

	"github.com/urfave/cli/v3"
)

// Export writes the collection to a file in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	criteria := make(map[string]any)
	if letter := cmd.String("letter"); letter != "" {
		criteria["artist_letter"] = letter
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	export := &formatter.CollectionExport{
		Title:   cmd.String("title"),
		Records: records,
	}

	path, err := formatter.WriteExport(export, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("collection exported", "path", path, "records", len(records))
	r.writePlain("✓ Exported %d records to %s\n", len(records), path)
	return nil
}

// exportCommand handles collection export operations
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the collection to CSV, Markdown, text, or JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, markdown, text, json)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Collection title used in the export",
				Value: "Record Collection",
			},
			&cli.StringFlag{
				Name:  "letter",
				Usage: "Export only one artist letter bucket (A-Z or #)",
			},
		},
		Action: r.Export,
	}
}
