package entity

import "net/url"

const (
	amazonProductURL   = "https://www.amazon.com/dp/"
	gutenbergSearchURL = "https://www.gutenberg.org/ebooks/search/?query="
	worldCatSearchURL  = "https://www.worldcat.org/search?q="
)

// ReadingLinks lists the places a record can be read or bought.
// Empty fields mean the link is not available.
type ReadingLinks struct {
	GooglePreview string `json:"googlePreview,omitempty"`
	GooglePlay    string `json:"googlePlay,omitempty"`
	Amazon        string `json:"amazon,omitempty"`
	WebReader     string `json:"webReader,omitempty"`
	Gutenberg     string `json:"gutenberg,omitempty"`
	Library       string `json:"library"`
}

// HasPreview reports whether the catalog offers a partial or full preview.
func HasPreview(a AccessInfo) bool {
	return a.Viewability == "PARTIAL" || a.Viewability == "ALL_PAGES"
}

// IsPublicDomain reports whether the record is free to read.
func IsPublicDomain(a AccessInfo) bool {
	return a.PublicDomain || a.AccessViewStatus == "FULL_PUBLIC_DOMAIN"
}

// Links builds the reading links for r. The library search link is always set.
func Links(r Record) ReadingLinks {
	links := ReadingLinks{
		GooglePreview: r.PreviewLink,
		GooglePlay:    r.SaleInfo.BuyLink,
		WebReader:     r.AccessInfo.WebReaderLink,
		Library:       worldCatSearchURL + url.QueryEscape(r.Title),
	}
	if isbn, ok := r.ISBN(); ok {
		links.Amazon = amazonProductURL + isbn
	}
	if IsPublicDomain(r.AccessInfo) {
		links.Gutenberg = gutenbergSearchURL + url.QueryEscape(r.Title)
	}
	return links
}
