package entity

// Record is a catalog volume as the rest of the application sees it.
// It is sourced from the external catalog and never mutated here.
type Record struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Subtitle            string       `json:"subtitle,omitempty"`
	Authors             []string     `json:"authors"`
	Publisher           string       `json:"publisher,omitempty"`
	Description         string       `json:"description"`
	ThumbnailURL        string       `json:"thumbnailUrl,omitempty"`
	PageCount           int          `json:"pageCount"`
	Categories          []string     `json:"categories"`
	PublishedDate       string       `json:"publishedDate"`
	AverageRating       float64      `json:"averageRating,omitempty"`
	RatingsCount        int          `json:"ratingsCount,omitempty"`
	Language            string       `json:"language,omitempty"`
	PreviewLink         string       `json:"previewLink,omitempty"`
	IndustryIdentifiers []Identifier `json:"industryIdentifiers,omitempty"`
	AccessInfo          AccessInfo   `json:"accessInfo"`
	SaleInfo            SaleInfo     `json:"saleInfo"`
}

// Identifier is an industry identifier such as ISBN_13.
type Identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type AccessInfo struct {
	Viewability      string `json:"viewability,omitempty"`
	PublicDomain     bool   `json:"publicDomain"`
	AccessViewStatus string `json:"accessViewStatus,omitempty"`
	WebReaderLink    string `json:"webReaderLink,omitempty"`
}

type SaleInfo struct {
	Saleability string `json:"saleability,omitempty"`
	BuyLink     string `json:"buyLink,omitempty"`
}

const untitled = "Untitled"

// Normalized returns a copy with the defaults a library entry relies on:
// a non-empty title and non-nil slices.
func (r Record) Normalized() Record {
	if r.Title == "" {
		r.Title = untitled
	}
	if r.Authors == nil {
		r.Authors = []string{}
	}
	if r.Categories == nil {
		r.Categories = []string{}
	}
	return r
}

// ISBN returns the first ISBN_13 or ISBN_10 identifier, in listing order.
func (r Record) ISBN() (string, bool) {
	for _, id := range r.IndustryIdentifiers {
		if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
			return id.Identifier, true
		}
	}
	return "", false
}
