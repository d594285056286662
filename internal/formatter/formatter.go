// package formatter provides functions to export collection data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"crate/internal/models"
	"crate/internal/shared"
)

// CollectionExport bundles the records being exported with a display title.
type CollectionExport struct {
	Title   string           `json:"title"`
	Records []*models.Record `json:"records"`
}

// ExportToCSV converts a CollectionExport to CSV format with columns:
// Artist, Album, Year, Label, CatalogNumber, DiscogsID, Size, Color, Genres, Source, Synced
func ExportToCSV(export *CollectionExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Artist", "Album", "Year", "Label", "CatalogNumber", "DiscogsID", "Size", "Color", "Genres", "Source", "Synced"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range export.Records {
		year := ""
		if record.YearReleased != 0 {
			year = strconv.Itoa(record.YearReleased)
		}
		row := []string{
			record.ArtistName,
			record.AlbumTitle,
			year,
			record.LabelName,
			record.CatalogNumber,
			record.DiscogsID,
			record.RecordSize,
			record.VinylColor,
			strings.Join(record.Genres, "; "),
			string(record.Source),
			strconv.FormatBool(record.Synced),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a CollectionExport to Markdown format
func ExportToMarkdown(export *CollectionExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Title))
	buf.WriteString(fmt.Sprintf("**Records**: %d\n\n", len(export.Records)))

	buf.WriteString("## Records\n\n")
	for i, record := range export.Records {
		yearPart := ""
		if record.YearReleased != 0 {
			yearPart = fmt.Sprintf(" (%d)", record.YearReleased)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, record.ArtistName, record.AlbumTitle, yearPart, vinylSuffix(record)))
	}

	return buf.Bytes(), nil
}

// vinylSuffix renders the pressing details when any are known, e.g. ` [12" Blue Vinyl]`.
func vinylSuffix(record *models.Record) string {
	parts := []string{}
	if record.RecordSize != "" {
		parts = append(parts, record.RecordSize)
	}
	if record.VinylColor != "" {
		parts = append(parts, record.VinylColor)
	}
	if record.Shaped {
		parts = append(parts, "Shaped")
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s]", strings.Join(parts, " "))
}

// ExportToText converts a CollectionExport to plain text format
func ExportToText(export *CollectionExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Collection: %s\n", export.Title))
	buf.WriteString(fmt.Sprintf("Records: %d\n\n", len(export.Records)))

	for i, record := range export.Records {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, record.ArtistName, record.AlbumTitle))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a CollectionExport to indented JSON
func ExportToJSON(export *CollectionExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// WriteExport exports the collection in the given format and returns the file written.
//
// Defaults to "collection.{ext}" as the filename when path is empty.
func WriteExport(export *CollectionExport, format, path string) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(export)
		ext = "csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(export)
		ext = "md"
	case "text", "txt":
		data, err = ExportToText(export)
		ext = "txt"
	case "json":
		data, err = ExportToJSON(export)
		ext = "json"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if path == "" {
		path = "collection." + ext
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
