package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/domain"
)

// SessionService manages browser sessions. A session pins a backend bearer
// token server-side; the browser only ever holds a signed session ID, so the
// token is never exposed to scripts or devtools.
type SessionService struct {
	sessions   domain.SessionRepository
	backend    *api.Client
	jwtSecret  []byte
	ttl        time.Duration
	refreshTTL time.Duration
}

// NewSessionService creates a new SessionService. ttl bounds the session
// lifetime; refreshTTL bounds how old a cached user snapshot may get before
// a who-am-I refresh is attempted.
func NewSessionService(sessions domain.SessionRepository, backend *api.Client, jwtSecret string, ttl, refreshTTL time.Duration) *SessionService {
	return &SessionService{
		sessions:   sessions,
		backend:    backend,
		jwtSecret:  []byte(jwtSecret),
		ttl:        ttl,
		refreshTTL: refreshTTL,
	}
}

// Login exchanges credentials with the backend and stores the resulting
// bearer token in a new session.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	res, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, res)
}

// Account rules mirror the backend's validators so obviously bad input is
// rejected before a round trip.
var (
	usernamePattern = regexp.MustCompile(`^[\w-]{2,15}$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{6,18}$`)
)

// Register creates a backend account and logs the new user straight in.
func (s *SessionService) Register(ctx context.Context, in api.RegisterInput) (*domain.Session, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email, and password are required", domain.ErrInvalidInput)
	}
	if !usernamePattern.MatchString(in.Username) {
		return nil, fmt.Errorf("%w: username must be 2-15 letters, digits, underscores, or dashes", domain.ErrInvalidInput)
	}
	if !passwordPattern.MatchString(in.Password) {
		return nil, fmt.Errorf("%w: password must be 6-18 characters (letters, digits, . _ -)", domain.ErrInvalidInput)
	}
	if in.Password != in.Confirm {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}

	res, err := s.backend.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, res)
}

func (s *SessionService) create(ctx context.Context, res *api.AuthResult) (*domain.Session, error) {
	user := res.User
	if user.ID == 0 {
		// Some backend versions return only the token; fetch the account.
		fetched, err := s.backend.Me(ctx, res.Token)
		if err != nil {
			return nil, fmt.Errorf("fetch account after login: %w", err)
		}
		user = *fetched
	}

	session := &domain.Session{
		ID:    uuid.NewString(),
		Token: res.Token,
		User:  &user,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Logout removes the session. The backend token is simply forgotten; the
// backend has no logout endpoint.
func (s *SessionService) Logout(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// Resolve maps a cookie value back to a stored session. It returns
// domain.ErrUnauthorized for forged, expired, or orphaned cookies.
func (s *SessionService) Resolve(ctx context.Context, cookieValue string) (*domain.Session, error) {
	id, err := s.validateCookie(cookieValue)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if time.Now().UTC().Sub(session.CreatedAt) > s.ttl {
		_ = s.sessions.Delete(ctx, id)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// Refresh re-fetches the user snapshot when it has gone stale. A definitive
// 401 from the backend kills the session; any other failure (backend down,
// timeout) keeps the cached snapshot so the site stays usable.
func (s *SessionService) Refresh(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	now := time.Now().UTC()
	if !session.Stale(s.refreshTTL, now) {
		return session, nil
	}

	user, err := s.backend.Me(ctx, session.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			_ = s.sessions.Delete(ctx, session.ID)
			return nil, domain.ErrUnauthorized
		}
		return session, nil
	}

	if err := s.sessions.UpdateUser(ctx, session.ID, user, now); err != nil {
		return session, nil
	}
	session.User = user
	session.RefreshedAt = now
	return session, nil
}

// CookieValue signs the session ID into the value stored in the browser.
func (s *SessionService) CookieValue(session *domain.Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": session.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// TTL returns the configured session lifetime, used for cookie Max-Age.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// PurgeExpired deletes sessions past their lifetime. Meant to run
// periodically in the background.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC().Add(-s.ttl))
}

func (s *SessionService) validateCookie(value string) (string, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}
	return sub, nil
}
