package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/highlight"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/service"
)

// SnippetHandler implements the /snippets resource and the nested
// /users/{id}/snippets routes.
type SnippetHandler struct {
	snippets *service.SnippetService
	users    *service.UserService
	links    *LinkBuilder
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler. It takes the user service as
// well because the nested routes resolve the owner from the path.
func NewSnippetHandler(
	snippets *service.SnippetService,
	users *service.UserService,
	links *LinkBuilder,
	logger *slog.Logger,
) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, users: users, links: links, logger: logger}
}

// snippetResponse is the serialized form of a snippet: language and style
// appear by name, which is why snippets are hydrated before they get here.
type snippetResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Code            string    `json:"code"`
	PrintLineNumber bool      `json:"print_line_number"`
	Language        string    `json:"language"`
	Style           string    `json:"style"`
	CreatedAt       time.Time `json:"created_at"`
}

func newSnippetResponse(s *model.Snippet) snippetResponse {
	return snippetResponse{
		ID:              s.ID,
		Title:           s.Title,
		Code:            s.Code,
		PrintLineNumber: s.PrintLineNumber,
		Language:        s.Language.Name,
		Style:           s.Style.Name,
		CreatedAt:       s.CreatedAt,
	}
}

func newSnippetResponses(snippets []model.Snippet) []snippetResponse {
	out := make([]snippetResponse, 0, len(snippets))
	for i := range snippets {
		out = append(out, newSnippetResponse(&snippets[i]))
	}
	return out
}

// HandleCreateForUser creates a snippet owned by the path user. Only that
// user or an admin may do this, and the check order is existence (404)
// before ownership (403).
//
// HTTP: POST /users/{id}/snippets
func (h *SnippetHandler) HandleCreateForUser(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	p, err := decodePayload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	in := service.CreateSnippetInput{
		Title:           p.requiredString("title", 1),
		Code:            p.requiredString("code", 1),
		PrintLineNumber: p.boolOrDefault("print_line_number", false),
		Language:        p.requiredString("language", 0),
		Style:           p.requiredString("style", 0),
	}
	if err := p.err(); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.Create(r.Context(), owner, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSnippetResponse(snippet))
}

// HandleListForUser returns a page of one user's snippets.
//
// HTTP: GET /users/{id}/snippets
func (h *SnippetHandler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r.PathValue("id"), "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	owner, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	snippets, err := h.snippets.List(r.Context(), params.pageSize, params.offset(), owner.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.links.WriteHeaders(w, r, params, len(snippets))
	writeJSON(w, http.StatusOK, newSnippetResponses(snippets))
}

// HandleList returns a page of snippets across all owners.
//
// HTTP: GET /snippets/
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snippets, err := h.snippets.List(r.Context(), params.pageSize, params.offset(), "")
	if err != nil {
		writeError(w, err)
		return
	}

	h.links.WriteHeaders(w, r, params, len(snippets))
	writeJSON(w, http.StatusOK, newSnippetResponses(snippets))
}

// HandleGet returns a single snippet.
//
// HTTP: GET /snippets/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r.PathValue("id"), "snippet_id")
	if err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSnippetResponse(snippet))
}

// HandleHighlight renders a snippet as highlighted HTML using its language,
// style and line-number flag.
//
// HTTP: GET /snippets/{id}/highlight
func (h *SnippetHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r.PathValue("id"), "snippet_id")
	if err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := highlight.Render(w, snippet.Code, snippet.Language.Name, snippet.Style.Name, snippet.PrintLineNumber); err != nil {
		// Too late for an error envelope once the body has started.
		h.logger.Error("failed to render highlighted snippet",
			slog.String("id", snippet.ID),
			slog.String("error", err.Error()),
		)
	}
}

// HandleUpdate applies a partial update to a snippet, owner-or-admin only.
// Supplied language/style names are resolved together so two bad names
// yield two field errors.
//
// HTTP: PATCH /snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	snippet, ok := h.resolveAndAuthorize(w, r)
	if !ok {
		return
	}

	p, err := decodePayload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	in := service.UpdateSnippetInput{
		Title:           p.optionalString("title", 1),
		Code:            p.optionalString("code", 1),
		PrintLineNumber: p.optionalBool("print_line_number"),
		Language:        p.optionalString("language", 0),
		Style:           p.optionalString("style", 0),
	}
	if err := p.err(); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.snippets.Update(r.Context(), snippet, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSnippetResponse(updated))
}

// HandleDelete removes a snippet, owner-or-admin only. Deleting the same
// snippet twice reports 404 the second time.
//
// HTTP: DELETE /snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	snippet, ok := h.resolveAndAuthorize(w, r)
	if !ok {
		return
	}

	if err := h.snippets.Delete(r.Context(), snippet.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveOwner resolves and authorizes the {id} user of the nested snippet
// creation route.
func (h *SnippetHandler) resolveOwner(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	id, err := parsePathID(r.PathValue("id"), "user_id")
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.logger.Error("no principal on protected route", slog.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "An internal error occurred"})
		return nil, false
	}

	owner, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	if err := auth.Authorize(principal, owner); err != nil {
		writeError(w, err)
		return nil, false
	}

	return owner, true
}

// resolveAndAuthorize loads the snippet named in the path with its owner
// hydrated and checks the owner-or-admin rule against it.
func (h *SnippetHandler) resolveAndAuthorize(w http.ResponseWriter, r *http.Request) (*model.Snippet, bool) {
	id, err := parsePathID(r.PathValue("id"), "snippet_id")
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.logger.Error("no principal on protected route", slog.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "An internal error occurred"})
		return nil, false
	}

	snippet, err := h.snippets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	if err := auth.Authorize(principal, snippet.Owner); err != nil {
		writeError(w, err)
		return nil, false
	}

	return snippet, true
}
