package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"crate/internal/models"
)

var _ list.Item = recordItem{}

// recordItem wraps [models.Record] to implement [list.Item].
type recordItem struct {
	record *models.Record
}

func (i recordItem) FilterValue() string { return i.record.ArtistName + " " + i.record.AlbumTitle }
func (i recordItem) Title() string {
	return fmt.Sprintf("%s - %s", i.record.ArtistName, i.record.AlbumTitle)
}

func (i recordItem) Description() string {
	desc := string(i.record.Source)
	if i.record.YearReleased != 0 {
		desc = fmt.Sprintf("%d • %s", i.record.YearReleased, desc)
	}
	if i.record.RecordSize != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.record.RecordSize)
	}
	if i.record.VinylColor != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.record.VinylColor)
	}
	return desc
}
