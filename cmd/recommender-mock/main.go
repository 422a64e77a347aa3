package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
)

// catalogEntry is one movie in the fixture file, keyed by external id.
type catalogEntry struct {
	MovieID string  `json:"movieId"`
	Title   string  `json:"title"`
	Genres  string  `json:"genres"`
	Score   float64 `json:"score"`
}

type recommendRequest struct {
	UserID         int      `json:"user_id"`
	FavoriteMovies []string `json:"favorite_movies"`
}

func main() {
	var (
		port    = flag.String("port", "8000", "port to listen on")
		data    = flag.String("data", "mock-recommendations.json", "path to mock data file")
		verbose = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var catalog []catalogEntry
	if err := json.Unmarshal(file, &catalog); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/recommendations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		var req recommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if *verbose {
			log.Printf("recommendations for user %d (%d favorites)", req.UserID, len(req.FavoriteMovies))
		}

		// Return everything the user has not already favorited.
		favored := make(map[string]struct{}, len(req.FavoriteMovies))
		for _, id := range req.FavoriteMovies {
			favored[id] = struct{}{}
		}
		recs := make([]catalogEntry, 0, len(catalog))
		for _, entry := range catalog {
			if _, ok := favored[entry.MovieID]; ok {
				continue
			}
			recs = append(recs, entry)
			if len(recs) == 10 {
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"recommendations": recs}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	log.Printf("mock recommender listening on %s (%d catalog entries)", addr, len(catalog))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
