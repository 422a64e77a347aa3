package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdoTarek2211/MovieMatch/internal/domain"
)

// SessionsRepository stores server-side login sessions. The backing table
// is provisioned lazily at startup rather than by migration, mirroring
// how the session store owns its own schema.
type SessionsRepository struct {
	pool *pgxpool.Pool
}

// EnsureSchema creates the sessions table when missing.
func (r *SessionsRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS sessions (
            token       text PRIMARY KEY,
            user_id     integer NOT NULL REFERENCES users (id),
            expires_at  timestamptz NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);
    `
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure sessions schema: %w", err)
	}
	return nil
}

// Create persists a new session row.
func (r *SessionsRepository) Create(ctx context.Context, session domain.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1,$2,$3)`,
		session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetUser resolves a live session token to its user. Expired or unknown
// tokens return ErrNotFound.
func (r *SessionsRepository) GetUser(ctx context.Context, token string) (domain.User, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM sessions s
        JOIN users u ON u.id = s.user_id
        WHERE s.token = $1 AND s.expires_at > now()
    `, prefixColumns("u", userColumns))

	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (r *SessionsRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired prunes sessions past their expiry and returns how many
// rows were removed.
func (r *SessionsRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Expire force-expires a session, used by tests to simulate timeout.
func (r *SessionsRepository) Expire(ctx context.Context, token string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET expires_at = $2 WHERE token = $1`, token, at)
	return err
}
