package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bookshelf/internal/platform/googlebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Search(ctx context.Context, query string, maxResults, startIndex int) (*googlebooks.VolumesResponse, error) {
	args := m.Called(ctx, query, maxResults, startIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.VolumesResponse), args.Error(1)
}

func (m *mockClient) SearchByCategory(ctx context.Context, category string, maxResults int) (*googlebooks.VolumesResponse, error) {
	args := m.Called(ctx, category, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.VolumesResponse), args.Error(1)
}

func (m *mockClient) Trending(ctx context.Context) (*googlebooks.VolumesResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.VolumesResponse), args.Error(1)
}

func (m *mockClient) GetByID(ctx context.Context, id string) (*googlebooks.Volume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.Volume), args.Error(1)
}

func testVolume(id, title string) googlebooks.Volume {
	v := googlebooks.Volume{ID: id}
	v.VolumeInfo.Title = title
	v.VolumeInfo.Authors = []string{"Frank Herbert"}
	v.VolumeInfo.IndustryIdentifiers = append(v.VolumeInfo.IndustryIdentifiers, struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	}{Type: "ISBN_13", Identifier: "9780441013593"})
	v.AccessInfo.Viewability = "PARTIAL"
	return v
}

func TestService_Search(t *testing.T) {
	client := new(mockClient)
	svc := NewService(client)

	client.On("Search", mock.Anything, "dune", 10, 0).Return(&googlebooks.VolumesResponse{
		TotalItems: 1,
		Items:      []googlebooks.Volume{testVolume("d1", "Dune")},
	}, nil)

	page, err := svc.Search(context.Background(), "dune", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Dune", page.Items[0].Title)
	client.AssertExpectations(t)
}

func TestService_SearchFailure(t *testing.T) {
	client := new(mockClient)
	svc := NewService(client)

	client.On("Search", mock.Anything, "dune", 0, 0).Return(nil, fmt.Errorf("%w: boom", googlebooks.ErrFetchFailed))

	_, err := svc.Search(context.Background(), "dune", 0, 0)
	assert.True(t, errors.Is(err, googlebooks.ErrFetchFailed))
}

func TestService_TrendingEmpty(t *testing.T) {
	client := new(mockClient)
	svc := NewService(client)

	client.On("Trending", mock.Anything).Return(&googlebooks.VolumesResponse{}, nil)

	page, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := new(mockClient)
		v := testVolume("d1", "")
		client.On("GetByID", mock.Anything, "d1").Return(&v, nil)

		rec, err := NewService(client).Get(context.Background(), "d1")
		require.NoError(t, err)
		assert.Equal(t, "Untitled", rec.Title)
	})

	t.Run("upstream 404", func(t *testing.T) {
		client := new(mockClient)
		client.On("GetByID", mock.Anything, "nope").Return(nil, &googlebooks.StatusError{StatusCode: 404})

		_, err := NewService(client).Get(context.Background(), "nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("upstream 500", func(t *testing.T) {
		client := new(mockClient)
		client.On("GetByID", mock.Anything, "x").Return(nil, &googlebooks.StatusError{StatusCode: 500})

		_, err := NewService(client).Get(context.Background(), "x")
		assert.False(t, errors.Is(err, ErrNotFound))
		assert.True(t, errors.Is(err, googlebooks.ErrFetchFailed))
	})
}

func TestService_Details(t *testing.T) {
	client := new(mockClient)
	v := testVolume("d1", "Dune")
	client.On("GetByID", mock.Anything, "d1").Return(&v, nil)

	details, err := NewService(client).Details(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, details.HasPreview)
	assert.False(t, details.IsPublicDomain)
	assert.Equal(t, "https://www.amazon.com/dp/9780441013593", details.Links.Amazon)
}
