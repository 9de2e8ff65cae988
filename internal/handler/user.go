package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/service"
)

// UserHandler implements the /users resource.
//
// Mutation routes follow a fixed order of checks: path id parsing (422),
// authentication (401, enforced by the middleware), target existence (404),
// ownership (403), then body validation (422). The existence check coming
// before the ownership check means a caller can learn whether an id exists
// without rights to it; that behavior is deliberate and covered by tests.
type UserHandler struct {
	users  *service.UserService
	links  *LinkBuilder
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, links *LinkBuilder, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, links: links, logger: logger}
}

// HandleCreate registers a new account.
//
// HTTP: POST /users/
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	in := service.CreateUserInput{
		Firstname: p.requiredString("firstname", 0),
		Lastname:  p.requiredString("lastname", 0),
		Pseudo:    p.requiredString("pseudo", 0),
		Email:     p.requiredEmail("email"),
		Password:  p.requiredString("password", 0),
	}
	if err := p.err(); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleList returns a page of users with navigation link headers.
//
// HTTP: GET /users/
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.users.List(r.Context(), params.pageSize, params.offset())
	if err != nil {
		writeError(w, err)
		return
	}

	h.links.WriteHeaders(w, r, params, len(users))
	writeJSON(w, http.StatusOK, users)
}

// HandleGet returns a single user.
//
// HTTP: GET /users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r.PathValue("id"), "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate applies a partial update to a profile. Only the owner or an
// admin may do this; fields absent from the body stay untouched.
//
// HTTP: PATCH /users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolveAndAuthorize(w, r)
	if !ok {
		return
	}

	p, err := decodePayload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	in := service.UpdateUserInput{
		Firstname: p.optionalString("firstname", 0),
		Lastname:  p.optionalString("lastname", 0),
		Pseudo:    p.optionalString("pseudo", 0),
		Email:     p.optionalEmail("email"),
		Password:  p.optionalString("password", 0),
	}
	if err := p.err(); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), target, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes an account and, by cascade, its snippets.
//
// HTTP: DELETE /users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolveAndAuthorize(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), target.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolveAndAuthorize runs the shared front half of the mutation routes:
// id parsing, target resolution, owner-or-admin check. On failure the
// response is already written and ok is false.
func (h *UserHandler) resolveAndAuthorize(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	id, err := parsePathID(r.PathValue("id"), "user_id")
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		// The middleware guarantees a principal on these routes; reaching
		// here means a routing mistake, not a client error.
		h.logger.Error("no principal on protected route", slog.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "An internal error occurred"})
		return nil, false
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	if err := auth.Authorize(principal, target); err != nil {
		writeError(w, err)
		return nil, false
	}

	return target, true
}
