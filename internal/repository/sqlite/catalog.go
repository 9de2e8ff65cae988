package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// Compile-time check that *DB implements the catalog contract.
var _ repository.CatalogRepository = (*DB)(nil)

// GetLanguageByName looks up a language by name. The name column carries
// COLLATE NOCASE, so "Python" and "python" resolve to the same row.
func (db *DB) GetLanguageByName(ctx context.Context, name string) (*model.Language, error) {
	var lang model.Language
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM languages WHERE name = ?`, name,
	).Scan(&lang.ID, &lang.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("no language %s found", name),
			}
		}
		return nil, fmt.Errorf("sqlite: getting language %s: %w", name, err)
	}
	return &lang, nil
}

// GetStyleByName looks up a style by name, case-insensitively.
func (db *DB) GetStyleByName(ctx context.Context, name string) (*model.Style, error) {
	var style model.Style
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM styles WHERE name = ?`, name,
	).Scan(&style.ID, &style.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("no style %s found", name),
			}
		}
		return nil, fmt.Errorf("sqlite: getting style %s: %w", name, err)
	}
	return &style, nil
}

// ListLanguages returns languages ordered by name with the given bounds.
func (db *DB) ListLanguages(ctx context.Context, opts repository.ListOptions) ([]model.Language, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM languages ORDER BY name ASC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing languages: %w", err)
	}
	defer rows.Close()

	languages := make([]model.Language, 0, opts.Limit)
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning language row: %w", err)
		}
		languages = append(languages, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating languages: %w", err)
	}

	return languages, nil
}

// ListStyles returns styles ordered by name with the given bounds.
func (db *DB) ListStyles(ctx context.Context, opts repository.ListOptions) ([]model.Style, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM styles ORDER BY name ASC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing styles: %w", err)
	}
	defer rows.Close()

	styles := make([]model.Style, 0, opts.Limit)
	for rows.Next() {
		var s model.Style
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning style row: %w", err)
		}
		styles = append(styles, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating styles: %w", err)
	}

	return styles, nil
}

// SeedLanguages inserts any of the given names that are not yet present and
// returns how many were inserted. Existing rows (compared case-insensitively)
// are left untouched, so seeding is idempotent.
func (db *DB) SeedLanguages(ctx context.Context, names []string) (int, error) {
	return db.seed(ctx, "languages", names)
}

// SeedStyles inserts missing style names, returning the inserted count.
func (db *DB) SeedStyles(ctx context.Context, names []string) (int, error) {
	return db.seed(ctx, "styles", names)
}

func (db *DB) seed(ctx context.Context, table string, names []string) (int, error) {
	// table is one of two compile-time constants, never caller input.
	stmt := `INSERT INTO ` + table + ` (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`

	inserted := 0
	for _, name := range names {
		result, err := db.conn.ExecContext(ctx, stmt, uuid.NewString(), name)
		if err != nil {
			return inserted, fmt.Errorf("sqlite: seeding %s %q: %w", table, name, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		inserted += int(affected)
	}

	return inserted, nil
}

// CountCatalogs reports how many languages and styles are seeded. The server
// warns at startup when either catalog is empty, since snippet creation
// cannot succeed without them.
func (db *DB) CountCatalogs(ctx context.Context) (int, int, error) {
	var languages, styles int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM languages`).Scan(&languages); err != nil {
		return 0, 0, fmt.Errorf("sqlite: counting languages: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM styles`).Scan(&styles); err != nil {
		return 0, 0, fmt.Errorf("sqlite: counting styles: %w", err)
	}
	return languages, styles, nil
}
