package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AbdoTarek2211/MovieMatch/internal/domain"
	"github.com/AbdoTarek2211/MovieMatch/internal/repository"
)

type movieResponse struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"posterPath"`
	BackdropPath string `json:"backdropPath"`
	ReleaseDate  string `json:"releaseDate"`
	Runtime      int    `json:"runtime"`
	Genres       string `json:"genres"`
	VoteAverage  string `json:"voteAverage"`
	MovieID      string `json:"movieId"`
}

// movieDetailResponse repeats the external id under the snake_case key
// the UI historically read it from.
type movieDetailResponse struct {
	movieResponse
	MovieIDAlias string `json:"movie_id"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:           movie.ID,
		Title:        movie.Title,
		Overview:     movie.Overview,
		PosterPath:   movie.PosterPath,
		BackdropPath: movie.BackdropPath,
		ReleaseDate:  movie.ReleaseDate,
		Runtime:      movie.Runtime,
		Genres:       movie.Genres,
		VoteAverage:  movie.VoteAverage,
		MovieID:      movie.ExternalID,
	}
}

func toMovieResponses(movies []domain.Movie) []movieResponse {
	out := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		out = append(out, toMovieResponse(movie))
	}
	return out
}

func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.repo.Movies.Popular(r.Context())
	if err != nil {
		s.logger.Printf("popular movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to fetch popular movies")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponses(movies))
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, codeValidation, "Search query is required")
		return
	}

	movies, err := s.repo.Movies.SearchByTitle(r.Context(), query)
	if err != nil {
		s.logger.Printf("search movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to search movies")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponses(movies))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "id")
	if identifier == "" {
		s.respondError(w, http.StatusBadRequest, codeValidation, "Missing movie identifier")
		return
	}

	movie, err := s.repo.Movies.GetByIdentifier(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, codeNotFound, "Movie not found")
			return
		}
		s.logger.Printf("get movie error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to fetch movie")
		return
	}

	s.respondJSON(w, http.StatusOK, movieDetailResponse{
		movieResponse: toMovieResponse(movie),
		MovieIDAlias:  movie.ExternalID,
	})
}

func (s *Server) handleRecommenderHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.FastAPITimeoutSecs)*time.Second)
	defer cancel()

	if err := s.recommender.Health(ctx); err != nil {
		s.respondJSON(w, http.StatusInternalServerError, statusResponse{
			Status:  "error",
			Message: "Recommendation service is unavailable",
		})
		return
	}
	s.respondJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "API is running"})
}
