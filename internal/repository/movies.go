package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdoTarek2211/MovieMatch/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    overview,
    poster_path,
    backdrop_path,
    release_date,
    runtime,
    genres,
    vote_average,
    movie_id
`

const searchLimit = 20
const popularLimit = 10

// MovieCreateParams bundles the fields required to persist a movie.
type MovieCreateParams struct {
	Title        string
	Overview     string
	PosterPath   string
	BackdropPath string
	ReleaseDate  string
	Runtime      int
	Genres       string
	VoteAverage  string
	ExternalID   string
}

// Create inserts a movie, or returns the existing row when the external
// identifier is already present. Imports can replay safely.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (title, overview, poster_path, backdrop_path, release_date, runtime, genres, vote_average, movie_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (movie_id) DO NOTHING
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query,
		params.Title, params.Overview, params.PosterPath, params.BackdropPath,
		params.ReleaseDate, params.Runtime, params.Genres, params.VoteAverage, params.ExternalID)
	movie, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByExternalID(ctx, params.ExternalID)
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// GetByID fetches a movie by its internal identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	return r.getOne(ctx, query, id)
}

// GetByExternalID fetches a movie by its external catalog identifier.
func (r *MoviesRepository) GetByExternalID(ctx context.Context, externalID string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE movie_id = $1`, movieColumns)
	return r.getOne(ctx, query, externalID)
}

// GetByIdentifier resolves a movie from a single identifier string. Digit
// strings may match either the external or the internal identifier; an
// exact external-id match wins over a coincidental internal-id match.
func (r *MoviesRepository) GetByIdentifier(ctx context.Context, identifier string) (domain.Movie, error) {
	numericID, err := strconv.Atoi(identifier)
	if err != nil {
		return r.GetByExternalID(ctx, identifier)
	}

	query := fmt.Sprintf(`
        SELECT %s FROM movies
        WHERE movie_id = $1 OR id = $2
        ORDER BY (movie_id = $1) DESC
        LIMIT 1
    `, movieColumns)
	return r.getOne(ctx, query, identifier, numericID)
}

// GetByIDs fetches the subset of movies whose internal ids exist. Result
// order is unspecified.
func (r *MoviesRepository) GetByIDs(ctx context.Context, ids []int) ([]domain.Movie, error) {
	if len(ids) == 0 {
		return []domain.Movie{}, nil
	}

	args := make([]int32, len(ids))
	for i, id := range ids {
		args[i] = int32(id)
	}

	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = ANY($1)`, movieColumns)
	rows, err := r.pool.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

// SearchByTitle returns up to 20 movies whose title contains the query,
// case-insensitively.
func (r *MoviesRepository) SearchByTitle(ctx context.Context, query string) ([]domain.Movie, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	sql := fmt.Sprintf(`SELECT %s FROM movies WHERE title ILIKE $1 LIMIT %d`, movieColumns, searchLimit)
	rows, err := r.pool.Query(ctx, sql, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

// Popular ranks movies by the number of distinct users favoriting them,
// top 10. Ties break on internal id so repeated calls are stable.
func (r *MoviesRepository) Popular(ctx context.Context) ([]domain.Movie, error) {
	sql := fmt.Sprintf(`
        SELECT %s FROM movies m
        LEFT JOIN user_favorites f ON f.movie_id = m.id
        GROUP BY m.id
        ORDER BY COUNT(f.user_id) DESC, m.id ASC
        LIMIT %d
    `, prefixColumns("m", movieColumns), popularLimit)

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

func (r *MoviesRepository) getOne(ctx context.Context, query string, args ...interface{}) (domain.Movie, error) {
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Overview,
		&movie.PosterPath,
		&movie.BackdropPath,
		&movie.ReleaseDate,
		&movie.Runtime,
		&movie.Genres,
		&movie.VoteAverage,
		&movie.ExternalID,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
