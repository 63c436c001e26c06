package entity

import (
	"fmt"
	"strings"
	"time"
)

const (
	PlaceholderThumbnail = "https://via.placeholder.com/128x192?text=No+Cover"
	DefaultTruncateLen   = 150
)

// FormatAuthors renders an author list for display.
func FormatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return "Unknown Author"
	case 1:
		return authors[0]
	case 2:
		return strings.Join(authors, " & ")
	default:
		return fmt.Sprintf("%s and %d others", authors[0], len(authors)-1)
	}
}

// Thumbnail returns the record cover or a placeholder image.
func Thumbnail(r Record) string {
	if r.ThumbnailURL == "" {
		return PlaceholderThumbnail
	}
	return r.ThumbnailURL
}

var publishedLayouts = []string{"2006-01-02", "2006-01", "2006"}

// PublishedYear extracts the year from a catalog published date.
// Unparseable dates are returned as-is; empty ones become "Unknown".
func PublishedYear(date string) string {
	if date == "" {
		return "Unknown"
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return fmt.Sprintf("%d", t.Year())
		}
	}
	return date
}

// Truncate cuts text to maxLen runes and appends an ellipsis when it had to cut.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultTruncateLen
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
