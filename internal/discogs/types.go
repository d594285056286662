// Discogs API response types based on https://www.discogs.com/developers
package discogs

// Format represents one physical format entry on a release, with its
// free-text description strings (e.g. "LP", "12\"", "Blue Vinyl").
type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Text         string   `json:"text"`
	Descriptions []string `json:"descriptions"`
}

// ArtistRef represents an artist as referenced by a release.
type ArtistRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LabelRef represents a label as referenced by a release, with its catalog number.
type LabelRef struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CatNo     string `json:"catno"`
	EntityTyp string `json:"entity_type,omitempty"`
}

// Image represents an image resource attached to a release.
type Image struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	URI150 string `json:"uri150"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SearchResult represents one lightweight entry from the database search endpoint.
type SearchResult struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Year        string   `json:"year"`
	Thumb       string   `json:"thumb"`
	CoverImage  string   `json:"cover_image"`
	ResourceURL string   `json:"resource_url"`
	URI         string   `json:"uri"`
	CatNo       string   `json:"catno"`
	Barcode     []string `json:"barcode"`
	Label       []string `json:"label"`
	Genre       []string `json:"genre"`
	Style       []string `json:"style"`
	Format      []string `json:"format"`
}

// searchResponse is the envelope around search results.
type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Release represents the full detail of one release.
type Release struct {
	ID      int         `json:"id"`
	Title   string      `json:"title"`
	Year    int         `json:"year"`
	URI     string      `json:"uri"`
	Thumb   string      `json:"thumb"`
	Artists []ArtistRef `json:"artists"`
	Labels  []LabelRef  `json:"labels"`
	Formats []Format    `json:"formats"`
	Genres  []string    `json:"genres"`
	Styles  []string    `json:"styles"`
	Images  []Image     `json:"images"`
}

// Pagination carries the paging metadata Discogs returns with list endpoints.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// CollectionRelease is one entry from a user's collection folder listing.
// Only lives for the duration of a sync pull pass.
type CollectionRelease struct {
	ID               int         `json:"id"`
	InstanceID       int         `json:"instance_id"`
	DateAdded        string      `json:"date_added"`
	BasicInformation BasicInfo   `json:"basic_information"`
}

// BasicInfo carries the descriptive fields of a collection entry. Mirrors the
// release detail shape minus images and tracklist.
type BasicInfo struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Year        int         `json:"year"`
	Thumb       string      `json:"thumb"`
	CoverImage  string      `json:"cover_image"`
	ResourceURL string      `json:"resource_url"`
	Artists     []ArtistRef `json:"artists"`
	Labels      []LabelRef  `json:"labels"`
	Formats     []Format    `json:"formats"`
	Genres      []string    `json:"genres"`
	Styles      []string    `json:"styles"`
}

// CollectionPage is one page of a user's collection, with pagination metadata.
type CollectionPage struct {
	Pagination Pagination          `json:"pagination"`
	Releases   []CollectionRelease `json:"releases"`
}
