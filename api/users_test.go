package api_test

import (
	"net/http"
	"testing"
)

func TestUsers_CreateReturnsTokenAndUser(t *testing.T) {
	srv := setupServer(t)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/users", map[string]any{
		"username":  "alice",
		"password":  "hunter2",
		"firstName": "Alice",
		"lastName":  "Anders",
		"email":     "alice@example.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	if body["token"] == "" || body["token"] == nil {
		t.Fatalf("expected token in response: %v", body)
	}
	user := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("unexpected user: %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password must never appear in responses: %v", user)
	}
}

func TestUsers_CreateValidation(t *testing.T) {
	srv := setupServer(t)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/users", map[string]any{
		"username": "alice", "password": "pw",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing required fields, got %d", status)
	}

	registerUser(t, srv, "bob", false)
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/users", map[string]any{
		"username": "bob", "password": "pw", "firstName": "B", "lastName": "B", "email": "b2@example.com",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", status)
	}
}

func TestUsers_ListAndGetExcludePassword(t *testing.T) {
	srv := setupServer(t)
	registerUser(t, srv, "alice", false)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/users", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	users := body["users"].([]any)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %v", users)
	}
	if _, leaked := users[0].(map[string]any)["password"]; leaked {
		t.Fatalf("password leaked in list: %v", users)
	}

	status, body = doJSON(t, http.MethodGet, srv.URL+"/users/alice", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	user := body["user"].(map[string]any)
	if user["firstName"] != "Test" {
		t.Fatalf("unexpected user: %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password leaked in detail: %v", user)
	}
}

func TestUsers_GetUnknown(t *testing.T) {
	srv := setupServer(t)

	status, _ := doJSON(t, http.MethodGet, srv.URL+"/users/ghost", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestUsers_PatchSelfOrAdmin(t *testing.T) {
	srv := setupServer(t)
	alice := registerUser(t, srv, "alice", false)
	mallory := registerUser(t, srv, "mallory", false)
	admin := registerUser(t, srv, "boss", true)

	// anonymous and non-self are rejected
	status, _ := doJSON(t, http.MethodPatch, srv.URL+"/users/alice", map[string]any{"firstName": "X"})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous patch, got %d", status)
	}
	status, _ = doJSON(t, http.MethodPatch, srv.URL+"/users/alice", map[string]any{"firstName": "X", "_token": mallory})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-self patch, got %d", status)
	}

	// self can patch a subset; other fields stay put
	status, body := doJSON(t, http.MethodPatch, srv.URL+"/users/alice", map[string]any{"firstName": "Alicia", "_token": alice})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for self patch, got %d (%v)", status, body)
	}
	user := body["user"].(map[string]any)
	if user["firstName"] != "Alicia" || user["lastName"] != "User" {
		t.Fatalf("unexpected patched user: %v", user)
	}

	// admin can patch anyone
	status, _ = doJSON(t, http.MethodPatch, srv.URL+"/users/alice", map[string]any{"lastName": "Admins", "_token": admin})
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin patch, got %d", status)
	}

	// username is not an updatable field
	status, _ = doJSON(t, http.MethodPatch, srv.URL+"/users/alice", map[string]any{"username": "eve", "_token": alice})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 when patching username, got %d", status)
	}
}

func TestUsers_PasswordChangeAllowsLogin(t *testing.T) {
	srv := setupServer(t)
	alice := registerUser(t, srv, "alice", false)

	status, _ := doJSON(t, http.MethodPatch, srv.URL+"/users/alice", map[string]any{"password": "newpw", "_token": alice})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	status, body := doJSON(t, http.MethodPost, srv.URL+"/login", map[string]any{"username": "alice", "password": "newpw"})
	if status != http.StatusOK || body["token"] == "" {
		t.Fatalf("expected successful login with new password, got %d (%v)", status, body)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/login", map[string]any{"username": "alice", "password": "s3cret"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 with old password, got %d", status)
	}
}

func TestUsers_DeleteSelfOrAdmin(t *testing.T) {
	srv := setupServer(t)
	alice := registerUser(t, srv, "alice", false)
	admin := registerUser(t, srv, "boss", true)

	status, _ := doJSON(t, http.MethodDelete, srv.URL+"/users/alice", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous delete, got %d", status)
	}

	status, body := doJSON(t, http.MethodDelete, withToken(srv.URL+"/users/alice", alice), nil)
	if status != http.StatusOK || body["message"] == "" {
		t.Fatalf("expected 200 with message, got %d (%v)", status, body)
	}

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/users/alice", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}

	// admin can delete another user
	registerUser(t, srv, "carol", false)
	status, _ = doJSON(t, http.MethodDelete, withToken(srv.URL+"/users/carol", admin), nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d", status)
	}
}
