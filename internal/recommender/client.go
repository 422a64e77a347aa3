package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable is returned whenever the recommendation service cannot
// produce a usable response: network failure, timeout, or non-2xx status.
var ErrUnavailable = errors.New("recommender: service unavailable")

// Recommendation is one ranked candidate from the recommendation service.
// MovieID is the external catalog identifier.
type Recommendation struct {
	MovieID string
	Title   string
	Score   float64
}

// Client defines the contract for querying the recommendation service.
type Client interface {
	Recommend(ctx context.Context, userID int, favoriteExternalIDs []string) ([]Recommendation, error)
	Health(ctx context.Context) error
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed recommendation client.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse recommender url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

type recommendRequest struct {
	UserID         int      `json:"user_id"`
	FavoriteMovies []string `json:"favorite_movies"`
}

// Recommend posts the user's favorite external ids and returns the ranked
// candidates. An empty favorites list is still sent; the service decides
// how to degrade.
func (c *HTTPClient) Recommend(ctx context.Context, userID int, favoriteExternalIDs []string) ([]Recommendation, error) {
	if favoriteExternalIDs == nil {
		favoriteExternalIDs = []string{}
	}

	payload, err := json.Marshal(recommendRequest{UserID: userID, FavoriteMovies: favoriteExternalIDs})
	if err != nil {
		return nil, fmt.Errorf("encode recommendation request: %w", err)
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: "/recommendations"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("recommender: unexpected status %d for user %d", resp.StatusCode, userID)
		return nil, fmt.Errorf("%w: upstream returned %d", ErrUnavailable, resp.StatusCode)
	}

	recs, err := decodeRecommendations(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode recommendation response: %w", err)
	}
	return recs, nil
}

// Health probes the recommendation service's root endpoint.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: upstream returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

type apiResponse struct {
	Recommendations []apiRecommendation `json:"recommendations"`
}

type apiRecommendation struct {
	MovieID flexibleID `json:"movieId"`
	Title   string     `json:"title"`
	Score   float64    `json:"score"`
}

// flexibleID tolerates the service sending external ids as either JSON
// strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = flexibleID(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return fmt.Errorf("movieId must be a string or number")
	}
	*f = flexibleID(asNumber.String())
	return nil
}

func decodeRecommendations(body io.Reader) ([]Recommendation, error) {
	var payload apiResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(payload.Recommendations))
	for _, rec := range payload.Recommendations {
		if rec.MovieID == "" {
			continue
		}
		recs = append(recs, Recommendation{
			MovieID: string(rec.MovieID),
			Title:   rec.Title,
			Score:   rec.Score,
		})
	}
	return recs, nil
}
