package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aibbs/aibbs-web/internal/domain"
)

// SessionRepository implements domain.SessionRepository using SQLite.
// The user snapshot is stored as JSON; it is a cache of the backend's
// who-am-I payload, not a system of record.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SQLite-backed SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db.SqlDB}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	snapshot, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}

	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.RefreshedAt.IsZero() {
		session.RefreshedAt = now
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, user_json, created_at, refreshed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.Token, string(snapshot), session.CreatedAt, session.RefreshedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	session := &domain.Session{}
	var snapshot string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, user_json, created_at, refreshed_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.Token, &snapshot, &session.CreatedAt, &session.RefreshedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query session by id: %w", err)
	}

	if snapshot != "" {
		user := &domain.User{}
		if err := json.Unmarshal([]byte(snapshot), user); err != nil {
			return nil, fmt.Errorf("decode user snapshot: %w", err)
		}
		session.User = user
	}
	return session, nil
}

func (r *SessionRepository) UpdateUser(ctx context.Context, id string, user *domain.User, refreshedAt time.Time) error {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET user_json = ?, refreshed_at = ? WHERE id = ?`,
		string(snapshot), refreshedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update session user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
