package model

import "time"

// Snippet represents a saved piece of code together with the language it is
// written in and the style used when rendering it as HTML.
//
// LanguageID, StyleID and UserID are the stored foreign keys. The Language,
// Style and Owner pointers are only populated by an explicit hydration call
// (see repository.SnippetRepository.HydrateRelations) — they are nil after a
// plain read. Handlers that need the owner for an authorization check, or
// the language/style names for serialization, must hydrate first.
type Snippet struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Code            string    `json:"code"`
	PrintLineNumber bool      `json:"print_line_number"`
	LanguageID      string    `json:"-"`
	StyleID         string    `json:"-"`
	UserID          string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`

	Language *Language `json:"-"`
	Style    *Style    `json:"-"`
	Owner    *User     `json:"-"`
}
