package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// Compile-time check that *DB implements the snippet contract.
var _ repository.SnippetRepository = (*DB)(nil)

const snippetColumns = `id, title, code, print_line_number, language_id, style_id, user_id, created_at`

// CreateSnippet inserts a new snippet, filling in the generated ID and
// creation timestamp on the passed struct. The language, style and owner
// references must already be resolved to existing IDs.
func (db *DB) CreateSnippet(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = uuid.NewString()
	snippet.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (`+snippetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Code,
		snippet.PrintLineNumber,
		snippet.LanguageID,
		snippet.StyleID,
		snippet.UserID,
		snippet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetSnippetByID retrieves a bare snippet row. Relations stay nil until
// HydrateRelations is called.
func (db *DB) GetSnippetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var s model.Snippet
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id,
	).Scan(
		&s.ID, &s.Title, &s.Code, &s.PrintLineNumber,
		&s.LanguageID, &s.StyleID, &s.UserID, &s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// ListSnippets returns snippets in insertion order, restricted by any
// criteria in opts. The criteria fields map to columns through a closed
// switch — there is no dynamic column dispatch.
func (db *DB) ListSnippets(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	query := `SELECT ` + snippetColumns + ` FROM snippets`
	args := make([]any, 0, len(opts.Criteria)+2)

	for i, c := range opts.Criteria {
		column, err := snippetColumn(c.Field)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			query += ` WHERE `
		} else {
			query += ` AND `
		}
		query += column + ` = ?`
		args = append(args, c.Value)
	}

	query += ` ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, opts.Limit)
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Code, &s.PrintLineNumber,
			&s.LanguageID, &s.StyleID, &s.UserID, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// UpdateSnippet writes the mutable fields of an existing snippet.
func (db *DB) UpdateSnippet(ctx context.Context, snippet *model.Snippet) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, print_line_number = ?, language_id = ?, style_id = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.PrintLineNumber,
		snippet.LanguageID,
		snippet.StyleID,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// DeleteSnippet removes a snippet. Deleting an already-deleted snippet is
// not found, never a silent success.
func (db *DB) DeleteSnippet(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// HydrateRelations populates the Language, Style and Owner pointers of a
// snippet read earlier. Handlers call this explicitly before an
// authorization check (owner) or serialization (language/style names).
func (db *DB) HydrateRelations(ctx context.Context, snippet *model.Snippet) error {
	var lang model.Language
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM languages WHERE id = ?`, snippet.LanguageID,
	).Scan(&lang.ID, &lang.Name)
	if err != nil {
		return fmt.Errorf("sqlite: hydrating snippet language: %w", err)
	}

	var style model.Style
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM styles WHERE id = ?`, snippet.StyleID,
	).Scan(&style.ID, &style.Name)
	if err != nil {
		return fmt.Errorf("sqlite: hydrating snippet style: %w", err)
	}

	owner, err := db.GetUserByID(ctx, snippet.UserID)
	if err != nil {
		return fmt.Errorf("sqlite: hydrating snippet owner: %w", err)
	}

	snippet.Language = &lang
	snippet.Style = &style
	snippet.Owner = owner
	return nil
}

// snippetColumn maps a criterion field to its column. Unknown fields are a
// programming error surfaced as a plain error rather than a silent no-op.
func snippetColumn(f repository.Field) (string, error) {
	switch f {
	case repository.FieldSnippetOwnerID:
		return "user_id", nil
	}
	return "", fmt.Errorf("sqlite: unsupported snippet filter field %d", f)
}
