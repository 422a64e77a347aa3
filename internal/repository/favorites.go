package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdoTarek2211/MovieMatch/internal/domain"
)

// FavoritesRepository manages the user/movie favorites join table.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

const favoriteColumns = `id, user_id, movie_id, created_at`

// Add records a favorite and reports whether a new row was inserted.
// Repeating the same pair is a no-op, never a second row.
func (r *FavoritesRepository) Add(ctx context.Context, userID, movieID int) (domain.Favorite, bool, error) {
	query := fmt.Sprintf(`
        INSERT INTO user_favorites (user_id, movie_id)
        VALUES ($1,$2)
        ON CONFLICT (user_id, movie_id) DO NOTHING
        RETURNING %s
    `, favoriteColumns)

	fav, err := scanFavorite(r.pool.QueryRow(ctx, query, userID, movieID))
	if err == nil {
		return fav, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Favorite{}, false, err
	}

	// Conflict path: surface the existing row.
	existing := fmt.Sprintf(`SELECT %s FROM user_favorites WHERE user_id = $1 AND movie_id = $2`, favoriteColumns)
	fav, err = scanFavorite(r.pool.QueryRow(ctx, existing, userID, movieID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Favorite{}, false, ErrNotFound
		}
		return domain.Favorite{}, false, err
	}
	return fav, false, nil
}

// Remove deletes a favorite pair. Removing an absent pair is not an error.
func (r *FavoritesRepository) Remove(ctx context.Context, userID, movieID int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_favorites WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
	return err
}

// Exists reports whether the user has favorited the movie.
func (r *FavoritesRepository) Exists(ctx context.Context, userID, movieID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_favorites WHERE user_id = $1 AND movie_id = $2)`,
		userID, movieID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ListMovies resolves the user's favorite rows into full movie records.
func (r *FavoritesRepository) ListMovies(ctx context.Context, userID int) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT movie_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movieIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		movieIDs = append(movieIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	movies := (&MoviesRepository{pool: r.pool})
	return movies.GetByIDs(ctx, movieIDs)
}

// CountForMovie returns how many users favorited a movie.
func (r *FavoritesRepository) CountForMovie(ctx context.Context, movieID int) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_favorites WHERE movie_id = $1`, movieID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

func scanFavorite(row pgx.Row) (domain.Favorite, error) {
	var fav domain.Favorite
	err := row.Scan(&fav.ID, &fav.UserID, &fav.MovieID, &fav.CreatedAt)
	if err != nil {
		return domain.Favorite{}, err
	}
	return fav, nil
}
