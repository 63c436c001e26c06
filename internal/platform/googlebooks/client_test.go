package googlebooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumeJSON = `{
  "id": "zyTCAlFPjgYC",
  "volumeInfo": {
    "title": "The Google Story",
    "authors": ["David A. Vise", "Mark Malseed"],
    "publishedDate": "2005-11-15",
    "pageCount": 207,
    "categories": ["Browsers (Computer programs)"],
    "industryIdentifiers": [{"type": "ISBN_10", "identifier": "055380457X"}],
    "imageLinks": {"smallThumbnail": "http://books.google.com/small.jpg"},
    "previewLink": "http://books.google.com/books?id=zyTCAlFPjgYC"
  },
  "accessInfo": {"viewability": "PARTIAL", "publicDomain": false},
  "saleInfo": {"saleability": "FOR_SALE", "buyLink": "https://play.google.com/store/books/details?id=zyTCAlFPjgYC"}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-key", 1000, 2*time.Second), srv
}

func TestClient_Search(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "dune", q.Get("q"))
		assert.Equal(t, "24", q.Get("maxResults"))
		assert.Equal(t, "48", q.Get("startIndex"))
		assert.Equal(t, "secret-key", q.Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":1,"items":[` + volumeJSON + `]}`))
	})

	res, err := client.Search(context.Background(), "dune", 24, 48)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalItems)

	records := res.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "zyTCAlFPjgYC", records[0].ID)
	assert.Equal(t, "http://books.google.com/small.jpg", records[0].ThumbnailURL)
	assert.Equal(t, []string{"David A. Vise", "Mark Malseed"}, records[0].Authors)
	assert.Equal(t, "PARTIAL", records[0].AccessInfo.Viewability)
}

func TestClient_SearchDefaults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "0", r.URL.Query().Get("startIndex"))
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	})

	res, err := client.Search(context.Background(), "nothing", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Records())
}

func TestClient_SearchByCategory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "subject:fantasy", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{"totalItems":0,"items":[]}`))
	})

	_, err := client.SearchByCategory(context.Background(), "fantasy", 10)
	require.NoError(t, err)
}

func TestClient_Trending(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "bestseller", q.Get("q"))
		assert.Equal(t, "20", q.Get("maxResults"))
		assert.Equal(t, "relevance", q.Get("orderBy"))
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	})

	_, err := client.Trending(context.Background())
	require.NoError(t, err)
}

func TestClient_GetByID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/zyTCAlFPjgYC", r.URL.Path)
		_, _ = w.Write([]byte(volumeJSON))
	})

	v, err := client.GetByID(context.Background(), "zyTCAlFPjgYC")
	require.NoError(t, err)
	assert.Equal(t, "The Google Story", v.Record().Title)
	assert.Equal(t, 207, v.Record().PageCount)
}

func TestClient_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	})

	_, err := client.GetByID(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "quota")
}

func TestClient_BadJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Trending(context.Background())
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestClient_TransportError(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Search(context.Background(), "dune", 1, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestClient_RawGetPassesStatusThrough(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})

	status, body, err := client.RawGet(context.Background(), "volumes/none", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "missing", string(body))
}

func TestClient_NoKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasKey := r.URL.Query()["key"]
		assert.False(t, hasKey)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 1000, time.Second)
	_, err := client.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unchanged", client.redact("unchanged"))
}

func TestClient_RedactsKey(t *testing.T) {
	client := NewClient("http://example.invalid", "secret", 1000, time.Second)
	assert.Equal(t, "GET http://x/volumes?key=HIDDEN", client.redact("GET http://x/volumes?key=secret"))
}

func TestClient_CancelledWhileWaitingForLimiter(t *testing.T) {
	client := NewClient("http://example.invalid", "", 1000, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.RawGet(ctx, "volumes", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}
