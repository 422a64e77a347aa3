package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AbdoTarek2211/MovieMatch/internal/recommender"
	"github.com/AbdoTarek2211/MovieMatch/internal/repository"
)

type addFavoriteRequest struct {
	MovieID int `json:"movieId"`
}

type favoriteResponse struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	MovieID   int       `json:"movieId"`
	CreatedAt time.Time `json:"createdAt"`
}

// recommendedMovieResponse is a movie with the recommender's relevance
// score attached.
type recommendedMovieResponse struct {
	movieResponse
	RecommendationScore float64 `json:"recommendationScore"`
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
		return
	}

	movies, err := s.repo.Favorites.ListMovies(r.Context(), user.ID)
	if err != nil {
		s.logger.Printf("list favorites error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to fetch favorites")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponses(movies))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
		return
	}

	var req addFavoriteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.MovieID <= 0 {
		s.respondError(w, http.StatusBadRequest, codeValidation, "movieId must be a positive integer")
		return
	}

	if _, err := s.repo.Movies.GetByID(r.Context(), req.MovieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, codeNotFound, "Movie not found")
			return
		}
		s.logger.Printf("lookup movie for favorite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to add to favorites")
		return
	}

	exists, err := s.repo.Favorites.Exists(r.Context(), user.ID, req.MovieID)
	if err != nil {
		s.logger.Printf("check favorite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to add to favorites")
		return
	}
	if exists {
		s.respondError(w, http.StatusBadRequest, codeConflict, "Movie already in favorites")
		return
	}

	fav, _, err := s.repo.Favorites.Add(r.Context(), user.ID, req.MovieID)
	if err != nil {
		s.logger.Printf("add favorite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to add to favorites")
		return
	}

	s.respondJSON(w, http.StatusCreated, favoriteResponse{
		ID:        fav.ID,
		UserID:    fav.UserID,
		MovieID:   fav.MovieID,
		CreatedAt: fav.CreatedAt,
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
		return
	}

	param := chi.URLParam(r, "movieId")
	movieID, err := strconv.Atoi(param)
	if err != nil {
		// Not a local id; resolve the external catalog identifier first.
		movie, err := s.repo.Movies.GetByIdentifier(r.Context(), param)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondError(w, http.StatusNotFound, codeNotFound, "Movie not found")
				return
			}
			s.logger.Printf("resolve movie for unfavorite error: %v", err)
			s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to remove from favorites")
			return
		}
		movieID = movie.ID
	}

	if err := s.repo.Favorites.Remove(r.Context(), user.ID, movieID); err != nil {
		s.logger.Printf("remove favorite error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to remove from favorites")
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Movie removed from favorites"})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
		return
	}

	favorites, err := s.repo.Favorites.ListMovies(r.Context(), user.ID)
	if err != nil {
		s.logger.Printf("load favorites for recommendations error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to fetch recommendations")
		return
	}

	externalIDs := make([]string, 0, len(favorites))
	for _, movie := range favorites {
		externalIDs = append(externalIDs, movie.ExternalID)
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.FastAPITimeoutSecs)*time.Second)
	defer cancel()

	recs, err := s.recommender.Recommend(ctx, user.ID, externalIDs)
	if err != nil {
		if errors.Is(err, recommender.ErrUnavailable) {
			s.logger.Printf("recommender unavailable for user %d: %v", user.ID, err)
			s.respondError(w, http.StatusInternalServerError, codeDependency, "Recommendation service is unavailable")
			return
		}
		s.logger.Printf("recommendations error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to fetch recommendations")
		return
	}

	results := make([]recommendedMovieResponse, 0, len(recs))
	for _, rec := range recs {
		movie, err := s.repo.Movies.GetByIdentifier(r.Context(), rec.MovieID)
		if err != nil {
			// Stale external ids are tolerated, not fatal.
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			s.logger.Printf("hydrate recommendation %q error: %v", rec.MovieID, err)
			s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to fetch recommendations")
			return
		}
		results = append(results, recommendedMovieResponse{
			movieResponse:       toMovieResponse(movie),
			RecommendationScore: rec.Score,
		})
	}

	s.respondJSON(w, http.StatusOK, results)
}
