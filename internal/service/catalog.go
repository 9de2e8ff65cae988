package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// CatalogService exposes the language and style reference listings.
type CatalogService struct {
	repo   repository.CatalogRepository
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(repo repository.CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// ListLanguages returns languages ordered by name with the given bounds.
func (s *CatalogService) ListLanguages(ctx context.Context, limit, offset int) ([]model.Language, error) {
	languages, err := s.repo.ListLanguages(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list languages", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	return languages, nil
}

// ListStyles returns styles ordered by name with the given bounds.
func (s *CatalogService) ListStyles(ctx context.Context, limit, offset int) ([]model.Style, error) {
	styles, err := s.repo.ListStyles(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list styles", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing styles: %w", err)
	}
	return styles, nil
}
