package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrFetchFailed is returned for transport errors and non-2xx upstream responses.
var ErrFetchFailed = errors.New("fetch failed")

const (
	DefaultBaseURL    = "https://www.googleapis.com/books/v1"
	DefaultMaxResults = 20
	trendingQuery     = "bestseller"
)

// StatusError carries the upstream status and body of a failed call.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: unexpected status code %d", ErrFetchFailed, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrFetchFailed
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient builds a client pacing outbound calls to rps requests per second.
// Calls are never retried.
func NewClient(baseURL, apiKey string, rps int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// Search runs a free-text volumes query.
func (c *Client) Search(ctx context.Context, query string, maxResults, startIndex int) (*VolumesResponse, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("startIndex", strconv.Itoa(startIndex))
	return c.volumes(ctx, params)
}

// SearchByCategory queries volumes filed under a subject.
func (c *Client) SearchByCategory(ctx context.Context, category string, maxResults int) (*VolumesResponse, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	params := url.Values{}
	params.Set("q", "subject:"+category)
	params.Set("maxResults", strconv.Itoa(maxResults))
	return c.volumes(ctx, params)
}

// Trending returns the relevance-ordered bestseller list.
func (c *Client) Trending(ctx context.Context) (*VolumesResponse, error) {
	params := url.Values{}
	params.Set("q", trendingQuery)
	params.Set("maxResults", strconv.Itoa(DefaultMaxResults))
	params.Set("orderBy", "relevance")
	return c.volumes(ctx, params)
}

// GetByID fetches a single volume.
func (c *Client) GetByID(ctx context.Context, id string) (*Volume, error) {
	var v Volume
	if err := c.getJSON(ctx, "volumes/"+url.PathEscape(id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) volumes(ctx context.Context, params url.Values) (*VolumesResponse, error) {
	var res VolumesResponse
	if err := c.getJSON(ctx, "volumes", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, target interface{}) error {
	status, body, err := c.RawGet(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &StatusError{StatusCode: status, Body: string(body)}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrFetchFailed, endpoint, err)
	}
	return nil
}

// RawGet forwards a GET for endpoint (relative to the base URL) with params
// and the API key appended, returning the upstream status and body verbatim.
// Only transport failures are reported as errors.
func (c *Client) RawGet(ctx context.Context, endpoint string, params url.Values) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(endpoint, params), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrFetchFailed, c.redact(err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) buildURL(endpoint string, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// redact hides the API key in error text meant for logs.
func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.apiKey, "HIDDEN")
}
