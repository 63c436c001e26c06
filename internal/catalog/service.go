package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bookshelf/internal/entity"
	"bookshelf/internal/platform/googlebooks"
)

type Service struct {
	client Client
}

func NewService(client Client) *Service {
	return &Service{client: client}
}

func (s *Service) Search(ctx context.Context, query string, maxResults, startIndex int) (Page, error) {
	res, err := s.client.Search(ctx, query, maxResults, startIndex)
	if err != nil {
		return Page{}, fmt.Errorf("search %q: %w", query, err)
	}
	return toPage(res), nil
}

func (s *Service) ByCategory(ctx context.Context, category string, maxResults int) (Page, error) {
	res, err := s.client.SearchByCategory(ctx, category, maxResults)
	if err != nil {
		return Page{}, fmt.Errorf("category %q: %w", category, err)
	}
	return toPage(res), nil
}

func (s *Service) Trending(ctx context.Context) (Page, error) {
	res, err := s.client.Trending(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("trending: %w", err)
	}
	return toPage(res), nil
}

// Get returns the normalized record for a volume id. An upstream 404 is
// reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (entity.Record, error) {
	v, err := s.client.GetByID(ctx, id)
	if err != nil {
		var statusErr *googlebooks.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return entity.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return entity.Record{}, fmt.Errorf("get volume %s: %w", id, err)
	}
	return v.Record(), nil
}

// Details returns the volume together with its reading links.
func (s *Service) Details(ctx context.Context, id string) (Details, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Details{}, err
	}
	return Details{
		Item:           newItem(rec),
		Links:          entity.Links(rec),
		HasPreview:     entity.HasPreview(rec.AccessInfo),
		IsPublicDomain: entity.IsPublicDomain(rec.AccessInfo),
	}, nil
}

func toPage(res *googlebooks.VolumesResponse) Page {
	if res == nil {
		return Page{Items: []Item{}}
	}
	records := res.Records()
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		items = append(items, newItem(rec))
	}
	return Page{Items: items, TotalItems: res.TotalItems}
}
