package discogs

import "testing"

func TestExtractRecordSize(t *testing.T) {
	tests := []struct {
		name    string
		formats []Format
		want    string
	}{
		{
			name:    "Album With Inch Marker",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{"LP", "Album", `12"`, "33 ⅓ RPM"}}},
			want:    `12"`,
		},
		{
			name:    "Single",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{`7"`, "Single", "45 RPM"}}},
			want:    `7"`,
		},
		{
			name:    "Spelled Out Inches",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{"LP", "10 inch"}}},
			want:    "10 inch",
		},
		{
			name:    "No Size Marker",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{"LP", "Album", "Gatefold"}}},
			want:    "",
		},
		{
			name:    "No Vinyl Entry",
			formats: []Format{{Name: "CD", Descriptions: []string{`12"`}}},
			want:    "",
		},
		{
			name:    "Nil Formats",
			formats: nil,
			want:    "",
		},
		{
			name:    "Vinyl Entry Without Descriptions",
			formats: []Format{{Name: "Vinyl"}},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRecordSize(tt.formats); got != tt.want {
				t.Errorf("ExtractRecordSize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractVinylColor(t *testing.T) {
	tests := []struct {
		name    string
		formats []Format
		want    string
	}{
		{
			name:    "Color In Description",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{"LP", "Blue Vinyl"}}},
			want:    "Blue Vinyl",
		},
		{
			name:    "Description Wins Over Text Fallback",
			formats: []Format{{Name: "Vinyl", Text: "Transparent", Descriptions: []string{"LP", "Clear"}}},
			want:    "Clear",
		},
		{
			name:    "Text Fallback When Descriptions Have No Color",
			formats: []Format{{Name: "Vinyl", Text: "Splatter", Descriptions: []string{"LP", "Album"}}},
			want:    "Splatter",
		},
		{
			name:    "Grey And Gray Spellings",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{"Gray Marble"}}},
			want:    "Gray Marble",
		},
		{
			name:    "No Color Anywhere",
			formats: []Format{{Name: "Vinyl", Text: "Gatefold Sleeve", Descriptions: []string{"LP", "Album"}}},
			want:    "",
		},
		{
			name:    "No Vinyl Entry",
			formats: []Format{{Name: "Cassette", Text: "Red", Descriptions: []string{"Red"}}},
			want:    "",
		},
		{
			name:    "Nil Formats",
			formats: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVinylColor(tt.formats); got != tt.want {
				t.Errorf("ExtractVinylColor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsShapedVinyl(t *testing.T) {
	tests := []struct {
		name    string
		formats []Format
		want    bool
	}{
		{
			name:    "Picture Disc",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{`12"`, "Picture Disc", "Album"}}},
			want:    true,
		},
		{
			name:    "Shaped",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{"Shaped", "Limited Edition"}}},
			want:    true,
		},
		{
			name:    "Regular Album",
			formats: []Format{{Name: "Vinyl", Descriptions: []string{"LP", "Album", "Gatefold"}}},
			want:    false,
		},
		{
			name:    "No Vinyl Entry",
			formats: []Format{{Name: "CD", Descriptions: []string{"Picture Disc"}}},
			want:    false,
		},
		{
			name:    "Nil Formats",
			formats: nil,
			want:    false,
		},
		{
			name:    "Vinyl Entry Without Descriptions",
			formats: []Format{{Name: "Vinyl"}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShapedVinyl(tt.formats); got != tt.want {
				t.Errorf("IsShapedVinyl() = %v, want %v", got, tt.want)
			}
		})
	}
}
