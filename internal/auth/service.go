package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AbdoTarek2211/MovieMatch/internal/domain"
	"github.com/AbdoTarek2211/MovieMatch/internal/repository"
)

// ErrInvalidCredentials is returned for any login mismatch. It is
// deliberately uniform: callers cannot tell an unknown username from a
// wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrUsernameTaken is returned when registering an existing username.
var ErrUsernameTaken = errors.New("auth: username taken")

// ErrNoSession signals that no authenticated session exists for a token.
var ErrNoSession = errors.New("auth: no session")

// SessionLifetime bounds how long a session token stays valid.
const SessionLifetime = 7 * 24 * time.Hour

// pruneInterval controls how often expired session rows are removed.
const pruneInterval = 15 * time.Minute

// Service implements registration, login, logout, and session lookup on
// top of the users and sessions repositories.
type Service struct {
	users    *repository.UsersRepository
	sessions *repository.SessionsRepository
	logger   *log.Logger

	// dummyHash is verified against when a login names an unknown user,
	// keeping the failure path's timing close to the real one.
	dummyHash string
}

// NewService constructs the authentication service.
func NewService(repo *repository.Repository, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.Default()
	}
	dummy, err := HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}
	return &Service{
		users:     repo.Users,
		sessions:  repo.Sessions,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// Init provisions the session table. Call once at startup.
func (s *Service) Init(ctx context.Context) error {
	return s.sessions.EnsureSchema(ctx)
}

// Register creates an account and an authenticated session for it.
// The returned user carries the stored hash; strip it at the boundary.
func (s *Service) Register(ctx context.Context, username, password, fullName string) (domain.User, string, error) {
	username = strings.TrimSpace(username)

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return domain.User{}, "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, "", fmt.Errorf("check username: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	user, err := s.users.Create(ctx, repository.UserCreateParams{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
	})
	if err != nil {
		// The unique constraint backs up the pre-check under races.
		if errors.Is(err, repository.ErrConflict) {
			return domain.User{}, "", ErrUsernameTaken
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.establishSession(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and establishes an authenticated session.
func (s *Service) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a verification anyway so unknown usernames cost the
			// same as wrong passwords.
			_, _ = VerifyPassword(password, s.dummyHash)
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := VerifyPassword(password, user.Password)
	if err != nil {
		s.logger.Printf("auth: verify password for user %d: %v", user.ID, err)
		return domain.User{}, "", ErrInvalidCredentials
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.establishSession(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Logout destroys the session. Logging out without one succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves a session token to its account.
func (s *Service) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrNoSession
	}
	user, err := s.sessions.GetUser(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrNoSession
		}
		return domain.User{}, fmt.Errorf("resolve session: %w", err)
	}
	return user, nil
}

// StartPruning launches the background session pruner. It stops when the
// context is cancelled.
func (s *Service) StartPruning(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pruned, err := s.sessions.DeleteExpired(ctx)
				if err != nil {
					if ctx.Err() == nil {
						s.logger.Printf("auth: prune sessions: %v", err)
					}
					continue
				}
				if pruned > 0 {
					s.logger.Printf("auth: pruned %d expired sessions", pruned)
				}
			}
		}
	}()
}

func (s *Service) establishSession(ctx context.Context, userID int) (string, error) {
	session := domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(SessionLifetime),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return session.Token, nil
}
