package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pastebin/internal/service"
)

// CatalogHandler serves the language and style reference listings.
type CatalogHandler struct {
	catalogs *service.CatalogService
	links    *LinkBuilder
	logger   *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalogs *service.CatalogService, links *LinkBuilder, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs, links: links, logger: logger}
}

// HandleListLanguages returns a page of languages.
//
// HTTP: GET /languages
func (h *CatalogHandler) HandleListLanguages(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	languages, err := h.catalogs.ListLanguages(r.Context(), params.pageSize, params.offset())
	if err != nil {
		writeError(w, err)
		return
	}

	h.links.WriteHeaders(w, r, params, len(languages))
	writeJSON(w, http.StatusOK, languages)
}

// HandleListStyles returns a page of styles.
//
// HTTP: GET /styles
func (h *CatalogHandler) HandleListStyles(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	styles, err := h.catalogs.ListStyles(r.Context(), params.pageSize, params.offset())
	if err != nil {
		writeError(w, err)
		return
	}

	h.links.WriteHeaders(w, r, params, len(styles))
	writeJSON(w, http.StatusOK, styles)
}
