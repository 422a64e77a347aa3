package recommender

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"
)

// TestHTTPClientSmoke runs against a live recommendation service when
// FASTAPI_URL is set, verifying the client can parse a real response.
func TestHTTPClientSmoke(t *testing.T) {
	baseURL := os.Getenv("FASTAPI_URL")
	if baseURL == "" {
		t.Skip("FASTAPI_URL not provided")
	}

	client, err := NewHTTPClient(baseURL, 3*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create http client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		t.Fatalf("health check: %v", err)
	}

	recs, err := client.Recommend(ctx, 1, []string{"1"})
	if err != nil {
		t.Fatalf("fetch recommendations: %v", err)
	}
	for _, rec := range recs {
		if rec.MovieID == "" {
			t.Fatalf("recommendation missing movieId: %+v", rec)
		}
	}
}
