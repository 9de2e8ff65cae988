package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

func TestCreateUser_FillsIDAndTimestamp(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Firstname:    "Alice",
		Lastname:     "Martin",
		Pseudo:       "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not fill in an ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not fill in CreatedAt")
	}
}

func TestCreateUser_DuplicatePseudo(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "alice@example.com")

	dup := &model.User{
		Firstname:    "Other",
		Lastname:     "Alice",
		Pseudo:       "alice",
		Email:        "other@example.com",
		PasswordHash: "hash",
	}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
	if got, want := err.Error(), "A user with pseudo alice already exists"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "alice@example.com")

	dup := &model.User{
		Firstname:    "Bob",
		Lastname:     "Martin",
		Pseudo:       "bob",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
	if got, want := err.Error(), "A user with email alice@example.com already exists"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice", "alice@example.com")

	got, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Pseudo != "alice" || got.Email != "alice@example.com" {
		t.Errorf("GetUserByID() = %+v, want pseudo alice", got)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "b5f0e6a0-0000-0000-0000-000000000000")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID() error = %v, want ErrNotFound", err)
	}
	want := "no user with id b5f0e6a0-0000-0000-0000-000000000000 found"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestGetUserByPseudo(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice", "alice@example.com")

	got, err := db.GetUserByPseudo(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByPseudo() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetUserByPseudo() id = %s, want %s", got.ID, created.ID)
	}

	if _, err := db.GetUserByPseudo(context.Background(), "nobody"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByPseudo(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice", "alice@example.com")

	got, err := db.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetUserByEmail() id = %s, want %s", got.ID, created.ID)
	}
}

func TestListUsers_OrderAndBounds(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "alice@example.com")
	createTestUser(t, db, "bob", "bob@example.com")
	createTestUser(t, db, "carol", "carol@example.com")

	users, err := db.ListUsers(context.Background(), repository.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers() returned %d users, want 2", len(users))
	}

	rest, err := db.ListUsers(context.Background(), repository.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("ListUsers() second page returned %d users, want 1", len(rest))
	}

	// Insertion order is stable across pages: no user shows up twice.
	seen := map[string]bool{}
	for _, u := range append(users, rest...) {
		if seen[u.ID] {
			t.Errorf("user %s appeared on two pages", u.Pseudo)
		}
		seen[u.ID] = true
	}
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "alice@example.com")

	user.Firstname = "Alicia"
	user.Pseudo = "alicia"
	if err := db.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	got, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Firstname != "Alicia" || got.Pseudo != "alicia" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.User{ID: "b5f0e6a0-0000-0000-0000-000000000000", Pseudo: "ghost"}
	if err := db.UpdateUser(context.Background(), ghost); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateUser() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateUser_DuplicatePseudo(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	bob.Pseudo = "alice"
	err := db.UpdateUser(context.Background(), bob)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("UpdateUser() error = %v, want ErrConflict", err)
	}
	if got, want := err.Error(), "A user with pseudo alice already exists"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "alice@example.com")

	if err := db.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if _, err := db.GetUserByID(context.Background(), user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() after delete error = %v, want ErrNotFound", err)
	}

	// The second delete is a not found, never a silent success.
	if err := db.DeleteUser(context.Background(), user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second DeleteUser() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteUser_CascadesToSnippets(t *testing.T) {
	db := newTestDB(t)
	lang, style := seedTestCatalogs(t, db)
	user := createTestUser(t, db, "alice", "alice@example.com")
	snippet := createTestSnippet(t, db, user, lang, style, "mine")

	if err := db.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if _, err := db.GetSnippetByID(context.Background(), snippet.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("snippet survived owner deletion: error = %v, want ErrNotFound", err)
	}
}
