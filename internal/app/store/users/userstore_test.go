package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/indexes"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
)

func TestCreate_DefaultsAndNormalization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Email:    "  Alice@Example.COM ",
		Password: "hash",
		Name:     "  Alice   Liddell ",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized lowercase", created.Email)
	}
	if created.Name != "Alice Liddell" {
		t.Errorf("name = %q, want collapsed whitespace", created.Name)
	}
	if created.Role != authz.RoleUser {
		t.Errorf("role = %q, want %q", created.Role, authz.RoleUser)
	}
	if created.Clubs == nil {
		t.Error("clubs should be an empty array, not nil")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("create indexes: %v", err)
	}

	if _, err := store.Create(ctx, models.User{Email: "dup@example.com", Password: "x", Name: "A"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Email: "DUP@example.com", Password: "x", Name: "B"})
	if err != userstore.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Email: "bob@example.com", Password: "x", Name: "Bob"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "Bob@Example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got user %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestList_ExcludesPasswordHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "c@example.com", Password: "secret-hash", Name: "C"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	if users[0].Password != "" {
		t.Error("password hash leaked through List projection")
	}
}
