package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/woonki/tweetql/internal/graph"
	"github.com/woonki/tweetql/internal/movies"
	"github.com/woonki/tweetql/internal/tweet"
	"github.com/woonki/tweetql/internal/tweetcore"
)

type noMovies struct{}

func (noMovies) List(ctx context.Context) ([]*movies.Movie, error)           { return []*movies.Movie{}, nil }
func (noMovies) Get(ctx context.Context, id string) (*movies.Movie, error) { return nil, nil }

func setupTestRouter(t *testing.T, playground bool) http.Handler {
	t.Helper()
	core, err := tweetcore.New(tweet.DefaultSeed())
	if err != nil {
		t.Fatalf("tweetcore.New() error = %v", err)
	}
	t.Cleanup(func() { core.Close() })

	schema, err := graph.NewSchema(&graph.Resolver{Core: core, Movies: noMovies{}})
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	return NewRouter(schema, Options{Path: "/graphql", Playground: playground})
}

func postQuery(t *testing.T, h http.Handler, query string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGraphQLEndpoint(t *testing.T) {
	h := setupTestRouter(t, true)

	rec := postQuery(t, h, `{ tweet(id: "3") { text author { fullName } } }`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data struct {
			Tweet struct {
				Text   string
				Author struct{ FullName string }
			}
		}
		Errors []json.RawMessage
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("errors = %s", resp.Errors)
	}
	if resp.Data.Tweet.Text != "hello" || resp.Data.Tweet.Author.FullName != "jeon woonki" {
		t.Errorf("tweet = %+v", resp.Data.Tweet)
	}
}

func TestMutationOverHTTP(t *testing.T) {
	h := setupTestRouter(t, false)

	rec := postQuery(t, h, `mutation { postTweet(text: "hi", userId: "999") { id } }`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "user must exist") {
		t.Errorf("body = %s, want user must exist error", rec.Body.String())
	}
}

func TestPlayground(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		h := setupTestRouter(t, true)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
			t.Errorf("Content-Type = %q, want text/html", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("disabled", func(t *testing.T) {
		h := setupTestRouter(t, false)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
		if rec.Code == http.StatusOK {
			t.Error("GET /graphql served with playground disabled")
		}
	})
}

func TestHealthz(t *testing.T) {
	h := setupTestRouter(t, false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	h := setupTestRouter(t, false)

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if id := rec.Header().Get(RequestIDHeader); len(id) != 21 {
			t.Errorf("%s = %q, want a 21-character nanoid", RequestIDHeader, id)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "abc123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if id := rec.Header().Get(RequestIDHeader); id != "abc123" {
			t.Errorf("%s = %q, want abc123", RequestIDHeader, id)
		}
	})
}
