// Package repository declares the storage contracts used by the service
// layer. The sqlite subpackage implements them; tests substitute in-memory
// fakes.
package repository

import (
	"context"

	"github.com/sakif/pastebin/internal/model"
)

// Field identifies a filterable column. List queries are restricted with
// explicit (field, value) criteria rather than dynamic column names, so the
// set of filterable fields is closed and checked at compile time.
type Field int

const (
	// FieldSnippetOwnerID restricts a snippet list to one owner's snippets.
	FieldSnippetOwnerID Field = iota
)

// Criterion restricts a list query to rows whose Field equals Value.
type Criterion struct {
	Field Field
	Value string
}

// ListOptions carries pagination bounds and filter criteria for list reads.
// Results are ordered by creation time then primary key, so pages are stable
// under concurrent inserts at the tail.
type ListOptions struct {
	Limit    int
	Offset   int
	Criteria []Criterion
}

// UserRepository is the storage contract for user accounts.
//
// Pseudo and email are unique; Create and UpdateUser report a violation as
// an apperror conflict. DeleteUser cascades to the user's snippets.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByPseudo(ctx context.Context, pseudo string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// SnippetRepository is the storage contract for snippets.
//
// Reads return bare rows; relations are loaded only by an explicit
// HydrateRelations call so it is visible at the call site which handlers
// need the owner (authorization) or the language/style (serialization).
type SnippetRepository interface {
	CreateSnippet(ctx context.Context, snippet *model.Snippet) error
	GetSnippetByID(ctx context.Context, id string) (*model.Snippet, error)
	ListSnippets(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	UpdateSnippet(ctx context.Context, snippet *model.Snippet) error
	DeleteSnippet(ctx context.Context, id string) error
	HydrateRelations(ctx context.Context, snippet *model.Snippet) error
}

// CatalogRepository is the storage contract for the language and style
// reference entities. Name lookups are case-insensitive. The catalogs are
// write-once: SeedLanguages/SeedStyles insert missing names and leave
// existing rows untouched.
type CatalogRepository interface {
	GetLanguageByName(ctx context.Context, name string) (*model.Language, error)
	GetStyleByName(ctx context.Context, name string) (*model.Style, error)
	ListLanguages(ctx context.Context, opts ListOptions) ([]model.Language, error)
	ListStyles(ctx context.Context, opts ListOptions) ([]model.Style, error)
	SeedLanguages(ctx context.Context, names []string) (int, error)
	SeedStyles(ctx context.Context, names []string) (int, error)
	CountCatalogs(ctx context.Context) (languages, styles int, err error)
}
