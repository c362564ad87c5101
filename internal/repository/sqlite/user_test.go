package sqlite_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kordano/jobly/internal/repository/sqlite"
	"github.com/kordano/jobly/pkg/models"
)

func mustCreateUser(t *testing.T, repo *sqlite.SQLiteRepo, username, password string, admin bool) *models.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), &models.User{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     username + "@example.com",
		IsAdmin:   admin,
	}, password)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func TestUserCreate_HashesPassword(t *testing.T) {
	repo := newTestRepo(t)

	u := mustCreateUser(t, repo, "alice", "hunter2", false)
	if u.PasswordHash == "hunter2" || u.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserCreate_Duplicate(t *testing.T) {
	repo := newTestRepo(t)

	mustCreateUser(t, repo, "alice", "pw", false)
	_, err := repo.CreateUser(context.Background(), &models.User{
		Username:  "alice",
		FirstName: "Other",
		LastName:  "Person",
		Email:     "other@example.com",
	}, "pw2")
	if err == nil {
		t.Fatalf("expected conflict for duplicate username")
	}
	if statusOf(t, err) != 400 {
		t.Fatalf("expected 400 conflict, got %v", err)
	}
}

func TestUserGet_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetUser(context.Background(), "ghost")
	if err == nil {
		t.Fatalf("expected not-found error")
	}
	if statusOf(t, err) != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUserList(t *testing.T) {
	repo := newTestRepo(t)

	mustCreateUser(t, repo, "alice", "pw", false)
	mustCreateUser(t, repo, "bob", "pw", true)

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestUserUpdate_Partial(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateUser(t, repo, "alice", "pw", false)

	updated, err := repo.UpdateUser(ctx, "alice", map[string]any{"first_name": "Alicia", "photo_url": strptr("http://img")})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.FirstName != "Alicia" {
		t.Fatalf("first name not updated: %+v", updated)
	}
	if updated.LastName != "User" || updated.Email != "alice@example.com" {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
}

func TestUserUpdate_RehashesPassword(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateUser(t, repo, "alice", "old", false)

	updated, err := repo.UpdateUser(ctx, "alice", map[string]any{"password": "new"})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.PasswordHash == "new" {
		t.Fatalf("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new")); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}
}

func TestUserUpdate_RejectsAdminFlagAndUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateUser(t, repo, "alice", "pw", false)

	if _, err := repo.UpdateUser(ctx, "alice", map[string]any{"is_admin": true}); err == nil {
		t.Fatalf("expected rejection of is_admin update")
	}
	if _, err := repo.UpdateUser(ctx, "alice", map[string]any{"username": "mallory"}); err == nil {
		t.Fatalf("expected rejection of identifying key update")
	}
}

func TestUserDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateUser(t, repo, "alice", "pw", false)

	if err := repo.DeleteUser(ctx, "alice"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := repo.GetUser(ctx, "alice"); err == nil {
		t.Fatalf("expected not-found after delete")
	}
	if err := repo.DeleteUser(ctx, "alice"); err == nil {
		t.Fatalf("expected not-found on second delete")
	}
}
