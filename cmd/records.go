package main

import (
	"context"
	"fmt"
	"strings"

	"crate/internal/models"
	"crate/internal/shared"

	"github.com/urfave/cli/v3"
)

// RecordsList prints the local collection, optionally filtered.
func (r *Runner) RecordsList(ctx context.Context, cmd *cli.Command) error {
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
	if source := cmd.String("source"); source != "" {
		criteria["source"] = source
	}
	if cmd.IsSet("synced") {
		criteria["synced"] = cmd.Bool("synced")
	}

	records, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Collection (%d records)", len(records)))
	for i, record := range records {
		line := fmt.Sprintf("%d. %s - %s", i+1, record.ArtistName, record.AlbumTitle)
		if record.YearReleased != 0 {
			line += fmt.Sprintf(" (%d)", record.YearReleased)
		}
		if record.Synced {
			line += " ✓"
		}
		r.writePlain("%s\n", line)
	}

	return nil
}

// RecordsAdd creates a manually entered record.
func (r *Runner) RecordsAdd(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	record := &models.Record{
		ArtistName:    cmd.String("artist"),
		AlbumTitle:    cmd.String("album"),
		YearReleased:  int(cmd.Int("year")),
		LabelName:     cmd.String("label"),
		CatalogNumber: cmd.String("catno"),
		UPCCode:       cmd.String("upc"),
		RecordSize:    cmd.String("size"),
		VinylColor:    cmd.String("color"),
		Shaped:        cmd.Bool("shaped"),
		Genres:        splitTags(cmd.String("genres")),
		Styles:        splitTags(cmd.String("styles")),
		Source:        models.SourceManual,
	}

	if err := repo.Create(record); err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}

	r.logger.Info("record added", "id", record.ID)
	r.writePlain("✓ Added %s - %s (%s)\n", record.ArtistName, record.AlbumTitle, record.ID)
	return nil
}

// RecordsShow prints one record as JSON.
func (r *Runner) RecordsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	record, err := repo.Get(id)
	if err != nil {
		return err
	}

	return r.writeJSON(record, true)
}

// RecordsDelete removes a record by id.
func (r *Runner) RecordsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	if err := repo.Delete(id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted %s\n", id)
	return nil
}

// RecordsOpen opens a record's Discogs page in the default browser.
func (r *Runner) RecordsOpen(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	record, err := repo.Get(id)
	if err != nil {
		return err
	}
	if record.DiscogsURI == "" {
		return fmt.Errorf("%w: record has no Discogs page", shared.ErrInvalidArgument)
	}

	r.writePlain("Opening %s\n", record.DiscogsURI)
	return shared.OpenBrowser(record.DiscogsURI)
}

// RecordsBuckets prints the alphabetical bucket index.
func (r *Runner) RecordsBuckets(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	buckets, err := repo.Buckets()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(buckets, cmd.Bool("pretty"))
	}

	for _, bucket := range buckets {
		r.writePlain("%s  %d\n", bucket.Letter, bucket.Count)
	}
	return nil
}

// splitTags parses a comma-separated flag value into a clean list.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// recordsCommand handles local collection operations
func recordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "records",
		Aliases: []string{"rec"},
		Usage:   "Local record collection operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List records in the local collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "letter",
						Usage: "Filter by artist letter bucket (A-Z or #)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Filter by data source (discogs or manual)",
					},
					&cli.BoolFlag{
						Name:  "synced",
						Usage: "Filter by sync state",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.RecordsList,
			},
			{
				Name:  "add",
				Usage: "Add a record manually",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "album",
						Usage:    "Album title",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Year released",
					},
					&cli.StringFlag{
						Name:  "label",
						Usage: "Label name",
					},
					&cli.StringFlag{
						Name:  "catno",
						Usage: "Catalog number",
					},
					&cli.StringFlag{
						Name:  "upc",
						Usage: "UPC / barcode",
					},
					&cli.StringFlag{
						Name:  "size",
						Usage: `Record size (7", 10", 12")`,
					},
					&cli.StringFlag{
						Name:  "color",
						Usage: "Vinyl color description",
					},
					&cli.BoolFlag{
						Name:  "shaped",
						Usage: "Mark as shaped or picture disc",
					},
					&cli.StringFlag{
						Name:  "genres",
						Usage: "Comma-separated genres",
					},
					&cli.StringFlag{
						Name:  "styles",
						Usage: "Comma-separated styles",
					},
				},
				Action: r.RecordsAdd,
			},
			{
				Name:  "show",
				Usage: "Show one record as JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.RecordsShow,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.RecordsDelete,
			},
			{
				Name:  "open",
				Usage: "Open a record's Discogs page in a browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.RecordsOpen,
			},
			{
				Name:  "buckets",
				Usage: "Show alphabetical bucket counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.RecordsBuckets,
			},
		},
	}
}
