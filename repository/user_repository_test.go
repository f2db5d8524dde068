package repository

import (
	"context"
	"errors"
	"testing"

	"sweetShop/internal/testutil"
	"sweetShop/models"
)

func TestUserRepository_CreateAndQueries(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userrepo")
	repo := NewUserRepository(d)
	ctx := context.Background()

	n, err := repo.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("count on empty store: n=%d err=%v", n, err)
	}

	// Create
	u, err := repo.Create(ctx, &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.Role != models.RoleUser || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected created user: %+v", u)
	}

	// GetByEmail
	g, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil || g == nil || g.ID != u.ID || g.PasswordHash != "h" {
		t.Fatalf("get by email: %v %+v", err, g)
	}

	// Missing rows are nil, nil
	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown email, got %+v err=%v", missing, err)
	}

	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "userdup")
	repo := NewUserRepository(d)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &models.User{Email: "bob@example.com", Name: "Bob", PasswordHash: "h", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, &models.User{Email: "bob@example.com", Name: "Bobby", PasswordHash: "h2"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("count = %d after duplicate, want 1", n)
	}
	u, _ := repo.GetByEmail(ctx, "bob@example.com")
	if u.Role != models.RoleAdmin || u.Name != "Bob" {
		t.Fatalf("original row changed: %+v", u)
	}
}
