package discogs

import "strings"

// Vinyl attribute extraction from free-text format descriptions.
//
// Discogs does not structure size, color, or shape; they show up as loose
// strings in a release's format descriptions ("12\"", "Blue Vinyl",
// "Picture Disc"). The extractors below are pure functions over the Formats
// slice: they locate the entry whose name is exactly "Vinyl" and scan its
// descriptions, returning an absent value ("" or false) when nothing matches.
// They never fail on malformed input.

// sizeMarkers match description strings that carry a record size.
var sizeMarkers = []string{`"`, "inch", "7", "10", "12"}

// colorKeywords match description strings (or the format's free-text field)
// that carry a pressing color.
var colorKeywords = []string{
	"Vinyl", "Colored",
	"Clear", "Transparent", "Marble", "Splatter",
	"Black", "White", "Red", "Blue", "Green", "Yellow",
	"Purple", "Pink", "Orange", "Grey", "Gray",
}

// shapeKeywords match description strings for non-standard disc shapes.
var shapeKeywords = []string{"Picture Disc", "Shaped", "Shape", "Picture"}

// vinylFormat returns the first format entry named exactly "Vinyl", or nil.
func vinylFormat(formats []Format) *Format {
	for i := range formats {
		if formats[i].Name == "Vinyl" {
			return &formats[i]
		}
	}
	return nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ExtractRecordSize returns the first description string that looks like a
// record size, verbatim and unnormalized (e.g. `12"`, `7"`), or "" when the
// release has no vinyl format entry or no matching description.
func ExtractRecordSize(formats []Format) string {
	vinyl := vinylFormat(formats)
	if vinyl == nil {
		return ""
	}
	for _, desc := range vinyl.Descriptions {
		if containsAny(desc, sizeMarkers) {
			return desc
		}
	}
	return ""
}

// ExtractVinylColor returns the first description string carrying a color
// keyword. When no description matches, the format entry's free-text field is
// consulted as a fallback; a description match always wins over the fallback.
func ExtractVinylColor(formats []Format) string {
	vinyl := vinylFormat(formats)
	if vinyl == nil {
		return ""
	}
	for _, desc := range vinyl.Descriptions {
		if containsAny(desc, colorKeywords) {
			return desc
		}
	}
	if vinyl.Text != "" && containsAny(vinyl.Text, colorKeywords) {
		return vinyl.Text
	}
	return ""
}

// IsShapedVinyl reports whether any description marks the release as a
// picture disc or shaped pressing.
func IsShapedVinyl(formats []Format) bool {
	vinyl := vinylFormat(formats)
	if vinyl == nil {
		return false
	}
	for _, desc := range vinyl.Descriptions {
		if containsAny(desc, shapeKeywords) {
			return true
		}
	}
	return false
}
