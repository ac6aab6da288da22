// Package movies is a read-only client for the YTS movie listing API.
// Responses are passed through as-is; the client only picks the payload out of
// the "data" envelope.
package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const maxBodySize = 10 << 20

// Movie is one entry of the upstream listing. Field names follow the upstream JSON.
type Movie struct {
	ID                      int32    `json:"id"`
	URL                     string   `json:"url"`
	ImdbCode                string   `json:"imdb_code"`
	Title                   string   `json:"title"`
	TitleEnglish            string   `json:"title_english"`
	TitleLong               string   `json:"title_long"`
	Slug                    string   `json:"slug"`
	Year                    int32    `json:"year"`
	Rating                  float64  `json:"rating"`
	Runtime                 int32    `json:"runtime"`
	Genres                  []string `json:"genres"`
	Summary                 string   `json:"summary"`
	DescriptionFull         string   `json:"description_full"`
	Synopsis                string   `json:"synopsis"`
	YtTrailerCode           string   `json:"yt_trailer_code"`
	Language                string   `json:"language"`
	BackgroundImage         string   `json:"background_image"`
	BackgroundImageOriginal string   `json:"background_image_original"`
	SmallCoverImage         string   `json:"small_cover_image"`
	MediumCoverImage        string   `json:"medium_cover_image"`
	LargeCoverImage         string   `json:"large_cover_image"`
}

// Client talks to the upstream API. The zero value is not usable; call New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for the API rooted at baseURL (for example
// "https://yts.mx/api/v2"). A zero timeout means no client-side limit
// beyond the request context.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the upstream movie listing (data.movies). An empty listing,
// which upstream signals by omitting the key, yields an empty slice.
func (c *Client) List(ctx context.Context) ([]*Movie, error) {
	const op = "list"

	body, err := c.get(ctx, op, "/list_movies.json", nil)
	if err != nil {
		return nil, err
	}

	res := gjson.GetBytes(body, "data.movies")
	if !res.Exists() || res.Type == gjson.Null {
		return []*Movie{}, nil
	}
	if !res.IsArray() {
		return nil, &Error{Op: op, Kind: KindDecode, Err: fmt.Errorf("data.movies is %s, not an array", res.Type)}
	}

	var movies []*Movie
	if err := json.Unmarshal([]byte(res.Raw), &movies); err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: err}
	}
	return movies, nil
}

// Get returns a single movie (data.movie), or nil if upstream does not know the ID.
func (c *Client) Get(ctx context.Context, id string) (*Movie, error) {
	const op = "get"

	body, err := c.get(ctx, op, "/movie_details.json", url.Values{"movie_id": {id}})
	if err != nil {
		return nil, err
	}

	res := gjson.GetBytes(body, "data.movie")
	if !res.Exists() || res.Type == gjson.Null {
		return nil, nil
	}
	if !res.IsObject() {
		return nil, &Error{Op: op, Kind: KindDecode, Err: fmt.Errorf("data.movie is %s, not an object", res.Type)}
	}

	var m Movie
	if err := json.Unmarshal([]byte(res.Raw), &m); err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: err}
	}
	// Upstream answers unknown IDs with an empty movie.
	if m.ID == 0 {
		return nil, nil
	}
	return &m, nil
}

// get performs one GET and returns the validated JSON body.
func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnavailable, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("movie request failed", zap.String("op", op), zap.String("url", u), zap.Error(err))
		return nil, &Error{Op: op, Kind: KindUnavailable, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("movie request",
		zap.String("op", op),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Op:         op,
			Kind:       KindBadStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnavailable, Err: fmt.Errorf("reading body: %w", err)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &Error{Op: op, Kind: KindDecode, Err: fmt.Errorf("response is not valid JSON")}
	}

	if status := gjson.GetBytes(body, "status"); status.Exists() && status.String() != "ok" {
		return nil, &Error{
			Op:   op,
			Kind: KindRejected,
			Err:  fmt.Errorf("upstream status %q: %s", status.String(), gjson.GetBytes(body, "status_message").String()),
		}
	}

	return body, nil
}
