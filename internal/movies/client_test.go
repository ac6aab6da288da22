package movies

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const listResponse = `{
  "status": "ok",
  "status_message": "Query was successful",
  "data": {
    "movie_count": 2,
    "movies": [
      {"id": 10, "title": "Heat", "imdb_code": "tt0113277", "year": 1995, "rating": 8.3, "runtime": 170, "genres": ["Crime", "Drama"], "yt_trailer_code": "abc"},
      {"id": 11, "title": "Ronin", "year": 1998, "genres": ["Action"]}
    ]
  },
  "@meta": {"server_time": 1}
}`

const detailsResponse = `{"status": "ok", "data": {"movie": {"id": 10, "title": "Heat", "title_long": "Heat (1995)", "description_full": "LA crime saga"}}}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second)
}

func TestList(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list_movies.json" {
			t.Errorf("path = %q, want /list_movies.json", r.URL.Path)
		}
		w.Write([]byte(listResponse))
	})

	got, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []*Movie{
		{ID: 10, Title: "Heat", ImdbCode: "tt0113277", Year: 1995, Rating: 8.3, Runtime: 170, Genres: []string{"Crime", "Drama"}, YtTrailerCode: "abc"},
		{ID: 11, Title: "Ronin", Year: 1998, Genres: []string{"Action"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmpty(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","data":{"movie_count":0}}`))
	})

	got, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", got)
	}
}

func TestGet(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie_details.json" {
			t.Errorf("path = %q, want /movie_details.json", r.URL.Path)
		}
		switch r.URL.Query().Get("movie_id") {
		case "10":
			w.Write([]byte(detailsResponse))
		default:
			w.Write([]byte(`{"status":"ok","data":{"movie":{"id":0,"url":"","title":null}}}`))
		}
	})

	got, err := client.Get(context.Background(), "10")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := &Movie{ID: 10, Title: "Heat", TitleLong: "Heat (1995)", DescriptionFull: "LA crime saga"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	got, err = client.Get(context.Background(), "999")
	if err != nil {
		t.Fatalf("Get(999) error = %v", err)
	}
	if got != nil {
		t.Errorf("Get(999) = %+v, want nil", got)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind Kind
		wantCode string
	}{
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			wantKind: KindBadStatus,
			wantCode: "UPSTREAM_BAD_STATUS",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>maintenance</html>"))
			},
			wantKind: KindDecode,
			wantCode: "UPSTREAM_DECODE",
		},
		{
			name: "movies not an array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"ok","data":{"movies":"nope"}}`))
			},
			wantKind: KindDecode,
			wantCode: "UPSTREAM_DECODE",
		},
		{
			name: "upstream error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"error","status_message":"bad things"}`))
			},
			wantKind: KindRejected,
			wantCode: "UPSTREAM_REJECTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, tt.handler)

			_, err := client.List(context.Background())
			var merr *Error
			if !errors.As(err, &merr) {
				t.Fatalf("List() error = %v, want *Error", err)
			}
			if merr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", merr.Kind, tt.wantKind)
			}
			if got := merr.Extensions()["code"]; got != tt.wantCode {
				t.Errorf("Extensions()[code] = %v, want %q", got, tt.wantCode)
			}
			if merr.Op != "list" {
				t.Errorf("Op = %q, want \"list\"", merr.Op)
			}
		})
	}
}

func TestBadStatusExtensions(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.List(context.Background())
	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("List() error = %v, want *Error", err)
	}
	if got := merr.Extensions()["status"]; got != http.StatusServiceUnavailable {
		t.Errorf("Extensions()[status] = %v, want 503", got)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := New(srv.URL, 50*time.Millisecond)

	_, err := client.List(context.Background())
	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("List() error = %v, want *Error", err)
	}
	if merr.Kind != KindUnavailable {
		t.Errorf("Kind = %q, want %q", merr.Kind, KindUnavailable)
	}
}

func TestContextCanceled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listResponse))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.List(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("List() error = %v, want context.Canceled", err)
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).List(context.Background())
	var merr *Error
	if !errors.As(err, &merr) || merr.Kind != KindUnavailable {
		t.Errorf("List() error = %v, want UNAVAILABLE", err)
	}
}
