package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/pastebin/internal/model"
)

// newTestDB opens a fresh in-memory database for one test. The connection,
// and with it the database, is dropped through t.Cleanup.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with sensible defaults, failing the test on
// error.
func createTestUser(t *testing.T, db *DB, pseudo, email string) *model.User {
	t.Helper()
	user := &model.User{
		Firstname:    "Test",
		Lastname:     "User",
		Pseudo:       pseudo,
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutgoodenough",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", pseudo, err)
	}
	return user
}

// seedTestCatalogs seeds one language and one style and returns them, for
// tests that need snippet foreign keys to resolve.
func seedTestCatalogs(t *testing.T, db *DB) (*model.Language, *model.Style) {
	t.Helper()
	ctx := context.Background()

	if _, err := db.SeedLanguages(ctx, []string{"python"}); err != nil {
		t.Fatalf("failed to seed languages: %v", err)
	}
	if _, err := db.SeedStyles(ctx, []string{"monokai"}); err != nil {
		t.Fatalf("failed to seed styles: %v", err)
	}

	lang, err := db.GetLanguageByName(ctx, "python")
	if err != nil {
		t.Fatalf("failed to read seeded language: %v", err)
	}
	style, err := db.GetStyleByName(ctx, "monokai")
	if err != nil {
		t.Fatalf("failed to read seeded style: %v", err)
	}
	return lang, style
}

// createTestSnippet inserts a snippet owned by user, tagged with the given
// language and style.
func createTestSnippet(t *testing.T, db *DB, user *model.User, lang *model.Language, style *model.Style, title string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		Title:      title,
		Code:       "print('hello')",
		LanguageID: lang.ID,
		StyleID:    style.ID,
		UserID:     user.ID,
	}
	if err := db.CreateSnippet(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet %s: %v", title, err)
	}
	return snippet
}
