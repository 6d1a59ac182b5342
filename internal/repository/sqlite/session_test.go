package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newSession(id string) *domain.Session {
	return &domain.Session{
		ID:    id,
		Token: "bearer-" + id,
		User:  &domain.User{ID: 7, Username: "alice", IsAdmin: true, Points: 12},
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo := newTestDB(t).Sessions()
	ctx := context.Background()

	session := newSession("s1")
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.CreatedAt.IsZero() || session.RefreshedAt.IsZero() {
		t.Fatal("expected timestamps to be set on create")
	}

	found, err := repo.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Token != session.Token {
		t.Fatalf("token = %q, want %q", found.Token, session.Token)
	}
	if diff := cmp.Diff(session.User, found.User); diff != "" {
		t.Fatalf("user snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	repo := newTestDB(t).Sessions()

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_UpdateUser(t *testing.T) {
	repo := newTestDB(t).Sessions()
	ctx := context.Background()

	if err := repo.Create(ctx, newSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	refreshed := time.Now().UTC().Add(time.Minute)
	updated := &domain.User{ID: 7, Username: "alice", Points: 99}
	if err := repo.UpdateUser(ctx, "s1", updated, refreshed); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	found, err := repo.GetByID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.User.Points != 99 {
		t.Fatalf("points = %d, want 99", found.User.Points)
	}
	if !found.RefreshedAt.After(found.CreatedAt) {
		t.Fatal("expected refreshed_at to advance")
	}
}

func TestSessionRepository_UpdateUser_NotFound(t *testing.T) {
	repo := newTestDB(t).Sessions()

	err := repo.UpdateUser(context.Background(), "missing", &domain.User{ID: 1}, time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := newTestDB(t).Sessions()
	ctx := context.Background()

	if err := repo.Create(ctx, newSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing session is not an error.
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete (missing): %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	repo := newTestDB(t).Sessions()
	ctx := context.Background()

	old := newSession("old")
	old.CreatedAt = time.Now().UTC().Add(-100 * time.Hour)
	old.RefreshedAt = old.CreatedAt
	if err := repo.Create(ctx, old); err != nil {
		t.Fatalf("Create old: %v", err)
	}
	if err := repo.Create(ctx, newSession("fresh")); err != nil {
		t.Fatalf("Create fresh: %v", err)
	}

	removed, err := repo.DeleteExpired(ctx, time.Now().UTC().Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := repo.GetByID(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
}
