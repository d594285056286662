package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"crate/internal/discogs"
	"crate/internal/models"
	"crate/internal/shared"

	"github.com/urfave/cli/v3"
)

// DiscogsSearch searches the Discogs database for vinyl releases.
//
// Exactly one search mode applies per invocation: --catno, --upc, or the
// artist/title pair.
func (r *Runner) DiscogsSearch(ctx context.Context, cmd *cli.Command) error {
	catno := cmd.String("catno")
	upc := cmd.String("upc")
	artist := cmd.String("artist")
	title := cmd.String("title")

	client := r.newClient()

	var results []discogs.SearchResult
	var err error
	switch {
	case catno != "":
		results, err = client.SearchByCatalogNumber(ctx, catno)
	case upc != "":
		results, err = client.SearchByUPC(ctx, upc)
	case artist != "" || title != "":
		results, err = client.SearchByArtistAndTitle(ctx, artist, title)
	default:
		return fmt.Errorf("%w: provide --catno, --upc, or --artist/--title", shared.ErrMissingArgument)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Search Results (%d)", len(results)))
	for i, result := range results {
		r.writePlain("%d. %s", i+1, result.Title)
		if result.Year != "" {
			r.writePlain(" (%s)", result.Year)
		}
		if result.CatNo != "" {
			r.writePlain(" [%s]", result.CatNo)
		}
		r.writePlain("  id=%d\n", result.ID)
	}

	return nil
}

// DiscogsRelease prints full release detail as JSON.
func (r *Runner) DiscogsRelease(ctx context.Context, cmd *cli.Command) error {
	releaseID := cmd.StringArg("id")
	if releaseID == "" {
		return fmt.Errorf("%w: release id", shared.ErrMissingArgument)
	}

	release, err := r.newClient().GetRelease(ctx, releaseID)
	if err != nil {
		return err
	}

	if cmd.Bool("open") && release.URI != "" {
		if err := shared.OpenBrowser(release.URI); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return r.writeJSON(release, cmd.Bool("pretty"))
}

// DiscogsFetch fetches a release and saves it as a local record.
func (r *Runner) DiscogsFetch(ctx context.Context, cmd *cli.Command) error {
	releaseID := cmd.StringArg("id")
	if releaseID == "" {
		return fmt.Errorf("%w: release id", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	r.logger.Info("fetching release", "id", releaseID)

	release, err := r.newClient().GetRelease(ctx, releaseID)
	if err != nil {
		return err
	}

	record := releaseToRecord(release)
	err = repo.Create(record)
	if errors.Is(err, shared.ErrDuplicateRecord) {
		// Re-fetching a known release refreshes its Discogs-sourced fields.
		existing, getErr := repo.GetByDiscogsID(record.DiscogsID)
		if getErr != nil {
			return getErr
		}
		refreshRecord(existing, record)
		if err := repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh record: %w", err)
		}
		r.writePlain("↻ Refreshed %s - %s (%s)\n", existing.ArtistName, existing.AlbumTitle, existing.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	r.writePlain("✓ Saved %s - %s (%s)\n", record.ArtistName, record.AlbumTitle, record.ID)
	return nil
}

// refreshRecord copies Discogs-sourced fields onto an existing record,
// leaving the UPC code, data source, and sync state alone.
func refreshRecord(existing, fetched *models.Record) {
	existing.ArtistName = fetched.ArtistName
	existing.AlbumTitle = fetched.AlbumTitle
	existing.YearReleased = fetched.YearReleased
	existing.LabelName = fetched.LabelName
	existing.CatalogNumber = fetched.CatalogNumber
	existing.DiscogsURI = fetched.DiscogsURI
	existing.ThumbnailURL = fetched.ThumbnailURL
	existing.CoverImageURL = fetched.CoverImageURL
	existing.Genres = fetched.Genres
	existing.Styles = fetched.Styles
	existing.RecordSize = fetched.RecordSize
	existing.VinylColor = fetched.VinylColor
	existing.Shaped = fetched.Shaped
}

// releaseToRecord converts full release detail into a local record. Unlike
// collection pulls, a one-off fetch is not yet in the remote collection.
func releaseToRecord(release *discogs.Release) *models.Record {
	record := &models.Record{
		AlbumTitle:   release.Title,
		YearReleased: release.Year,
		DiscogsID:    strconv.Itoa(release.ID),
		DiscogsURI:   release.URI,
		ThumbnailURL: release.Thumb,
		Genres:       release.Genres,
		Styles:       release.Styles,
		RecordSize:   discogs.ExtractRecordSize(release.Formats),
		VinylColor:   discogs.ExtractVinylColor(release.Formats),
		Shaped:       discogs.IsShapedVinyl(release.Formats),
		Source:       models.SourceDiscogs,
		Synced:       false,
	}

	if len(release.Artists) > 0 {
		record.ArtistName = release.Artists[0].Name
	}
	if len(release.Labels) > 0 {
		record.LabelName = release.Labels[0].Name
		record.CatalogNumber = release.Labels[0].CatNo
	}
	for _, image := range release.Images {
		if image.Type == "primary" {
			record.CoverImageURL = image.URI
			break
		}
	}

	return record
}

// discogsCommand handles Discogs database operations
func discogsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "discogs",
		Aliases: []string{"dc"},
		Usage:   "Discogs database operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search Discogs for vinyl releases",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Artist name",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Release title",
					},
					&cli.StringFlag{
						Name:  "catno",
						Usage: "Catalog number",
					},
					&cli.StringFlag{
						Name:  "upc",
						Usage: "UPC / barcode",
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
				Action: r.DiscogsSearch,
			},
			{
				Name:  "release",
				Usage: "Show full release detail as JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the release page in a browser",
					},
				},
				Action: r.DiscogsRelease,
			},
			{
				Name:  "fetch",
				Usage: "Fetch a release and save it to the local collection",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.DiscogsFetch,
			},
		},
	}
}
