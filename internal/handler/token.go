package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/service"
)

// TokenHandler implements the credential-for-token exchange.
type TokenHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(auth *service.AuthService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{auth: auth, logger: logger}
}

// tokenResponse is the OAuth2-shaped success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HandleIssue exchanges form credentials for a bearer token.
//
// HTTP: POST /token (application/x-www-form-urlencoded)
//
// Missing form fields are 422 field errors, collected together like body
// validation everywhere else. Wrong credentials are a single 401 that does
// not say which half was wrong.
func (h *TokenHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apperror.Validation(apperror.FieldError{
			Loc:  []string{"body"},
			Msg:  "invalid form body",
			Type: "value_error",
		}))
		return
	}

	agg := &apperror.Aggregator{}
	username := r.PostFormValue("username")
	if username == "" {
		agg.Add(apperror.MissingField("username"))
	}
	password := r.PostFormValue("password")
	if password == "" {
		agg.Add(apperror.MissingField("password"))
	}
	if err := agg.Err(); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.auth.Authenticate(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
