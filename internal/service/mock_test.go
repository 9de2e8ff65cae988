package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserRepo is an in-memory repository.UserRepository. It stores copies,
// so mutating a returned user does not silently change the "database" — the
// same property the real store has.
type mockUserRepo struct {
	users  map[string]model.User // keyed by ID
	nextID int
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]model.User{}}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Pseudo == user.Pseudo {
			return apperror.Conflict(fmt.Sprintf("A user with pseudo %s already exists", user.Pseudo))
		}
		if u.Email == user.Email {
			return apperror.Conflict(fmt.Sprintf("A user with email %s already exists", user.Email))
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (m *mockUserRepo) GetUserByPseudo(_ context.Context, pseudo string) (*model.User, error) {
	for _, u := range m.users {
		if u.Pseudo == pseudo {
			user := u
			return &user, nil
		}
	}
	return nil, &apperror.AppError{
		Err:     apperror.ErrNotFound,
		Message: fmt.Sprintf("no user with pseudo %s found", pseudo),
	}
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, &apperror.AppError{
		Err:     apperror.ErrNotFound,
		Message: fmt.Sprintf("no user with email %s found", email),
	}
}

func (m *mockUserRepo) ListUsers(_ context.Context, opts repository.ListOptions) ([]model.User, error) {
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	return page(all, opts), nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Pseudo == user.Pseudo {
			return apperror.Conflict(fmt.Sprintf("A user with pseudo %s already exists", user.Pseudo))
		}
		if u.Email == user.Email {
			return apperror.Conflict(fmt.Sprintf("A user with email %s already exists", user.Email))
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

// mockSnippetStore is an in-memory SnippetStore: snippet rows plus the
// catalog lookups the snippet service needs.
type mockSnippetStore struct {
	snippets  map[string]model.Snippet
	languages []model.Language
	styles    []model.Style
	owners    map[string]model.User // keyed by ID, for hydration
	nextID    int
}

var _ SnippetStore = (*mockSnippetStore)(nil)

func newMockSnippetStore() *mockSnippetStore {
	return &mockSnippetStore{
		snippets: map[string]model.Snippet{},
		owners:   map[string]model.User{},
	}
}

func (m *mockSnippetStore) addLanguage(id, name string) *model.Language {
	m.languages = append(m.languages, model.Language{ID: id, Name: name})
	return &m.languages[len(m.languages)-1]
}

func (m *mockSnippetStore) addStyle(id, name string) *model.Style {
	m.styles = append(m.styles, model.Style{ID: id, Name: name})
	return &m.styles[len(m.styles)-1]
}

func (m *mockSnippetStore) addOwner(user model.User) {
	m.owners[user.ID] = user
}

func (m *mockSnippetStore) CreateSnippet(_ context.Context, snippet *model.Snippet) error {
	m.nextID++
	snippet.ID = fmt.Sprintf("snippet-%d", m.nextID)
	snippet.CreatedAt = time.Now().UTC()
	m.snippets[snippet.ID] = *snippet
	return nil
}

func (m *mockSnippetStore) GetSnippetByID(_ context.Context, id string) (*model.Snippet, error) {
	s, ok := m.snippets[id]
	if !ok {
		return nil, apperror.NotFound("snippet", id)
	}
	return &s, nil
}

func (m *mockSnippetStore) ListSnippets(_ context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	all := make([]model.Snippet, 0, len(m.snippets))
	for _, s := range m.snippets {
		matches := true
		for _, c := range opts.Criteria {
			if c.Field == repository.FieldSnippetOwnerID && s.UserID != c.Value {
				matches = false
			}
		}
		if matches {
			all = append(all, s)
		}
	}
	return page(all, opts), nil
}

func (m *mockSnippetStore) UpdateSnippet(_ context.Context, snippet *model.Snippet) error {
	if _, ok := m.snippets[snippet.ID]; !ok {
		return apperror.NotFound("snippet", snippet.ID)
	}
	m.snippets[snippet.ID] = *snippet
	return nil
}

func (m *mockSnippetStore) DeleteSnippet(_ context.Context, id string) error {
	if _, ok := m.snippets[id]; !ok {
		return apperror.NotFound("snippet", id)
	}
	delete(m.snippets, id)
	return nil
}

func (m *mockSnippetStore) HydrateRelations(_ context.Context, snippet *model.Snippet) error {
	for i := range m.languages {
		if m.languages[i].ID == snippet.LanguageID {
			snippet.Language = &m.languages[i]
		}
	}
	for i := range m.styles {
		if m.styles[i].ID == snippet.StyleID {
			snippet.Style = &m.styles[i]
		}
	}
	if owner, ok := m.owners[snippet.UserID]; ok {
		snippet.Owner = &owner
	}
	if snippet.Language == nil || snippet.Style == nil || snippet.Owner == nil {
		return fmt.Errorf("mock: dangling relation on snippet %s", snippet.ID)
	}
	return nil
}

func (m *mockSnippetStore) GetLanguageByName(_ context.Context, name string) (*model.Language, error) {
	for i := range m.languages {
		if strings.EqualFold(m.languages[i].Name, name) {
			return &m.languages[i], nil
		}
	}
	return nil, &apperror.AppError{
		Err:     apperror.ErrNotFound,
		Message: fmt.Sprintf("no language %s found", name),
	}
}

func (m *mockSnippetStore) GetStyleByName(_ context.Context, name string) (*model.Style, error) {
	for i := range m.styles {
		if strings.EqualFold(m.styles[i].Name, name) {
			return &m.styles[i], nil
		}
	}
	return nil, &apperror.AppError{
		Err:     apperror.ErrNotFound,
		Message: fmt.Sprintf("no style %s found", name),
	}
}

func (m *mockSnippetStore) ListLanguages(_ context.Context, opts repository.ListOptions) ([]model.Language, error) {
	return page(m.languages, opts), nil
}

func (m *mockSnippetStore) ListStyles(_ context.Context, opts repository.ListOptions) ([]model.Style, error) {
	return page(m.styles, opts), nil
}

func (m *mockSnippetStore) SeedLanguages(_ context.Context, names []string) (int, error) {
	inserted := 0
	for _, name := range names {
		if _, err := m.GetLanguageByName(context.Background(), name); err != nil {
			m.addLanguage(fmt.Sprintf("lang-%d", len(m.languages)+1), name)
			inserted++
		}
	}
	return inserted, nil
}

func (m *mockSnippetStore) SeedStyles(_ context.Context, names []string) (int, error) {
	inserted := 0
	for _, name := range names {
		if _, err := m.GetStyleByName(context.Background(), name); err != nil {
			m.addStyle(fmt.Sprintf("style-%d", len(m.styles)+1), name)
			inserted++
		}
	}
	return inserted, nil
}

func (m *mockSnippetStore) CountCatalogs(_ context.Context) (int, int, error) {
	return len(m.languages), len(m.styles), nil
}

// page applies limit/offset to a slice the way the store's LIMIT/OFFSET do.
func page[T any](items []T, opts repository.ListOptions) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
