package domain

import (
	"context"
	"time"
)

// Session binds a browser to a backend bearer token. The token never leaves
// this process; the cookie only carries the signed session ID. User is the
// snapshot from the last who-am-I refresh.
type Session struct {
	ID          string
	Token       string
	User        *User
	CreatedAt   time.Time
	RefreshedAt time.Time
}

// Stale reports whether the user snapshot is due for a who-am-I refresh.
func (s *Session) Stale(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.RefreshedAt) > ttl
}

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	UpdateUser(ctx context.Context, id string, user *User, refreshedAt time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}
