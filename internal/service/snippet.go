package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// SnippetStore bundles the snippet rows with the catalog lookups snippet
// operations need. Both are implemented by the sqlite DB.
type SnippetStore interface {
	repository.SnippetRepository
	repository.CatalogRepository
}

// SnippetService handles snippet creation, partial updates and deletion,
// including the resolution of language and style names to seeded entities.
type SnippetService struct {
	store  SnippetStore
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(store SnippetStore, logger *slog.Logger) *SnippetService {
	return &SnippetService{store: store, logger: logger}
}

// CreateSnippetInput carries the schema-validated creation payload.
// Language and Style are names, matched case-insensitively.
type CreateSnippetInput struct {
	Title           string
	Code            string
	PrintLineNumber bool
	Language        string
	Style           string
}

// UpdateSnippetInput carries a partial update. Nil fields were absent from
// the payload and leave the stored value untouched.
type UpdateSnippetInput struct {
	Title           *string
	Code            *string
	PrintLineNumber *bool
	Language        *string
	Style           *string
}

// Create persists a new snippet owned by owner.
//
// Both reference names are resolved before anything is written; an
// unresolved language and an unresolved style in the same payload are
// reported together, and no partial snippet is persisted on failure.
func (s *SnippetService) Create(ctx context.Context, owner *model.User, in CreateSnippetInput) (*model.Snippet, error) {
	var agg apperror.Aggregator

	language, err := s.resolveLanguage(ctx, in.Language, &agg)
	if err != nil {
		return nil, err
	}
	style, err := s.resolveStyle(ctx, in.Style, &agg)
	if err != nil {
		return nil, err
	}
	if err := agg.Err(); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		Title:           in.Title,
		Code:            in.Code,
		PrintLineNumber: in.PrintLineNumber,
		LanguageID:      language.ID,
		StyleID:         style.ID,
		UserID:          owner.ID,
	}

	if err := s.store.CreateSnippet(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("owner", owner.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	snippet.Language = language
	snippet.Style = style
	snippet.Owner = owner

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", owner.ID),
	)

	return snippet, nil
}

// GetByID retrieves a snippet with its relations hydrated.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	snippet, err := s.store.GetSnippetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.HydrateRelations(ctx, snippet); err != nil {
		return nil, err
	}
	return snippet, nil
}

// List retrieves snippets in insertion order. A non-empty ownerID restricts
// the result to that owner's snippets. Every returned snippet is hydrated so
// it can be serialized with its language and style names.
func (s *SnippetService) List(ctx context.Context, limit, offset int, ownerID string) ([]model.Snippet, error) {
	opts := repository.ListOptions{Limit: limit, Offset: offset}
	if ownerID != "" {
		opts.Criteria = append(opts.Criteria, repository.Criterion{
			Field: repository.FieldSnippetOwnerID,
			Value: ownerID,
		})
	}

	snippets, err := s.store.ListSnippets(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	for i := range snippets {
		if err := s.store.HydrateRelations(ctx, &snippets[i]); err != nil {
			return nil, err
		}
	}

	return snippets, nil
}

// Update applies a partial update to snippet. Supplied language/style names
// are resolved with the same collect-all rule as Create; nothing is written
// when any reference fails to resolve.
func (s *SnippetService) Update(ctx context.Context, snippet *model.Snippet, in UpdateSnippetInput) (*model.Snippet, error) {
	var agg apperror.Aggregator

	var language *model.Language
	if in.Language != nil {
		var err error
		language, err = s.resolveLanguage(ctx, *in.Language, &agg)
		if err != nil {
			return nil, err
		}
	}
	var style *model.Style
	if in.Style != nil {
		var err error
		style, err = s.resolveStyle(ctx, *in.Style, &agg)
		if err != nil {
			return nil, err
		}
	}
	if err := agg.Err(); err != nil {
		return nil, err
	}

	if language != nil {
		snippet.LanguageID = language.ID
		snippet.Language = language
	}
	if style != nil {
		snippet.StyleID = style.ID
		snippet.Style = style
	}
	if in.Title != nil {
		snippet.Title = *in.Title
	}
	if in.Code != nil {
		snippet.Code = *in.Code
	}
	if in.PrintLineNumber != nil {
		snippet.PrintLineNumber = *in.PrintLineNumber
	}

	if err := s.store.UpdateSnippet(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", snippet.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))
	return snippet, nil
}

// Delete removes a snippet. A second delete of the same id reports not
// found.
func (s *SnippetService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSnippet(ctx, id); err != nil {
		return err
	}
	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

// resolveLanguage looks up a language by name. An unknown name is recorded
// on the aggregator rather than returned, so the caller can keep collecting;
// only store failures come back as errors.
func (s *SnippetService) resolveLanguage(ctx context.Context, name string, agg *apperror.Aggregator) (*model.Language, error) {
	language, err := s.store.GetLanguageByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			agg.Add(apperror.UnknownReference("language", name))
			return nil, nil
		}
		return nil, fmt.Errorf("resolving language: %w", err)
	}
	return language, nil
}

func (s *SnippetService) resolveStyle(ctx context.Context, name string, agg *apperror.Aggregator) (*model.Style, error) {
	style, err := s.store.GetStyleByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			agg.Add(apperror.UnknownReference("style", name))
			return nil, nil
		}
		return nil, fmt.Errorf("resolving style: %w", err)
	}
	return style, nil
}
