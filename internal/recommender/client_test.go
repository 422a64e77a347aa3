package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, 2*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv
}

func TestRecommendDecodesStringAndNumericIDs(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommendations" {
			t.Errorf("path = %s, want /recommendations", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recommendations":[
            {"movieId":"ext-7","title":"Seven","genres":"Thriller","score":0.9},
            {"movieId":42,"title":"Answer","genres":"Sci-Fi","score":0.5}
        ]}`))
	}))

	recs, err := client.Recommend(context.Background(), 1, []string{"ext-1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].MovieID != "ext-7" || recs[0].Score != 0.9 {
		t.Fatalf("first rec = %+v", recs[0])
	}
	if recs[1].MovieID != "42" {
		t.Fatalf("numeric movieId decoded as %q, want \"42\"", recs[1].MovieID)
	}
}

func TestRecommendSendsEmptyListNotNull(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID         int             `json:"user_id"`
			FavoriteMovies json.RawMessage `json:"favorite_movies"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.UserID != 7 {
			t.Errorf("user_id = %d, want 7", body.UserID)
		}
		if string(body.FavoriteMovies) != "[]" {
			t.Errorf("favorite_movies = %s, want []", body.FavoriteMovies)
		}
		_, _ = w.Write([]byte(`{"recommendations":[]}`))
	}))

	recs, err := client.Recommend(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d recommendations, want 0", len(recs))
	}
}

func TestRecommendUpstreamErrorIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Recommend(context.Background(), 1, []string{"x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestRecommendConnectionFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewHTTPClient(url, time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Recommend(context.Background(), 1, []string{"x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("healthy service: %v", err)
	}

	failing, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	if err := failing.Health(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("unhealthy service error = %v, want ErrUnavailable", err)
	}
}
