package formatter

import (
	"strings"
	"testing"

	"crate/internal/models"
	th "crate/internal/testing"
)

func testExport() *CollectionExport {
	return &CollectionExport{
		Title: "My Collection",
		Records: []*models.Record{
			{
				ArtistName:    "Nirvana",
				AlbumTitle:    "Nevermind",
				YearReleased:  1991,
				LabelName:     "DGC",
				CatalogNumber: "DGC-24425",
				DiscogsID:     "2491673",
				RecordSize:    `12"`,
				VinylColor:    "Blue Vinyl",
				Genres:        []string{"Rock", "Grunge"},
				Source:        models.SourceDiscogs,
				Synced:        true,
			},
			{
				ArtistName: "Aphex Twin",
				AlbumTitle: "Drukqs",
				Genres:     []string{"Electronic"},
				Source:     models.SourceManual,
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Artist,Album,Year,Label,CatalogNumber,DiscogsID,Size,Color,Genres,Source,Synced") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Nirvana") {
			t.Errorf("CSV missing artist")
		}
		if !strings.Contains(output, "Rock; Grunge") {
			t.Errorf("CSV missing joined genres")
		}
		if !strings.Contains(output, "2491673") {
			t.Errorf("CSV missing discogs id")
		}
		if !strings.Contains(output, `"12"""`) {
			t.Errorf("CSV did not quote record size, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# My Collection") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Records**: 2") {
			t.Errorf("Markdown missing record count")
		}
		if !strings.Contains(output, `1. Nirvana - Nevermind (1991) [12" Blue Vinyl]`) {
			t.Errorf("Markdown missing pressing details, got: %s", output)
		}
		if !strings.Contains(output, "2. Aphex Twin - Drukqs\n") {
			t.Errorf("Markdown should omit empty pressing details, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Collection: My Collection") {
			t.Errorf("Text missing title")
		}
		if !strings.Contains(output, "Records: 2") {
			t.Errorf("Text missing record count")
		}
		if !strings.Contains(output, "1. Nirvana - Nevermind") {
			t.Errorf("Text missing record listing")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"My Collection"`) {
			t.Errorf("JSON missing title")
		}
		if !strings.Contains(output, `"Nirvana"`) {
			t.Errorf("JSON missing artist")
		}
		if !strings.Contains(output, `"is_synced_with_discogs": true`) {
			t.Errorf("JSON missing sync flag, got: %s", output)
		}
	})
}

func TestWriteExport(t *testing.T) {
	setup := func(t *testing.T) {
		t.Helper()
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		t.Cleanup(func() { th.MustChdir(t, originalDir) })
	}

	t.Run("WithDefaultPath", func(t *testing.T) {
		setup(t)

		path, err := WriteExport(testExport(), "csv", "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "collection.csv" {
			t.Errorf("Expected 'collection.csv', got '%s'", path)
		}

		th.AssertFileExists(t, path)
		content := th.MustReadFile(t, path)
		if !strings.Contains(content, "Nirvana") {
			t.Errorf("CSV missing record data")
		}
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		setup(t)

		path, err := WriteExport(testExport(), "markdown", "wantlist.md")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "wantlist.md" {
			t.Errorf("Expected 'wantlist.md', got '%s'", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		if _, err := WriteExport(testExport(), "xml", ""); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
