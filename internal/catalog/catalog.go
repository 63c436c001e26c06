package catalog

import (
	"context"
	"errors"

	"bookshelf/internal/entity"
	"bookshelf/internal/platform/googlebooks"
)

var ErrNotFound = errors.New("volume not found")

// Client is the subset of the Google Books client the catalog relies on.
type Client interface {
	Search(ctx context.Context, query string, maxResults, startIndex int) (*googlebooks.VolumesResponse, error)
	SearchByCategory(ctx context.Context, category string, maxResults int) (*googlebooks.VolumesResponse, error)
	Trending(ctx context.Context) (*googlebooks.VolumesResponse, error)
	GetByID(ctx context.Context, id string) (*googlebooks.Volume, error)
}

// Item is a record with the display fields result cards render.
type Item struct {
	entity.Record
	AuthorsDisplay string `json:"authorsDisplay"`
	Year           string `json:"year"`
	Thumbnail      string `json:"thumbnail"`
	Summary        string `json:"summary"`
}

func newItem(rec entity.Record) Item {
	return Item{
		Record:         rec,
		AuthorsDisplay: entity.FormatAuthors(rec.Authors),
		Year:           entity.PublishedYear(rec.PublishedDate),
		Thumbnail:      entity.Thumbnail(rec),
		Summary:        entity.Truncate(rec.Description, entity.DefaultTruncateLen),
	}
}

// Page is one page of catalog results.
type Page struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"totalItems"`
}

// Details is a single volume with the links the details view offers.
type Details struct {
	Item
	Links          entity.ReadingLinks `json:"links"`
	HasPreview     bool                `json:"hasPreview"`
	IsPublicDomain bool                `json:"isPublicDomain"`
}
