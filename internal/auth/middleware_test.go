package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
)

// stubResolver resolves pseudos against a fixed map, the way the middleware
// resolves them against the user store.
type stubResolver struct {
	users map[string]*model.User
}

func (s *stubResolver) GetUserByPseudo(_ context.Context, pseudo string) (*model.User, error) {
	user, ok := s.users[pseudo]
	if !ok {
		return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "no user with pseudo " + pseudo + " found"}
	}
	return user, nil
}

func newProtectedHandler(t *testing.T, resolver UserResolver) (http.Handler, *TokenService) {
	t.Helper()
	tokens := newTestTokenService(t)

	// The inner handler records the principal so tests can check it landed
	// in the context.
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Error("no principal in context after middleware")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(principal.Pseudo))
	})

	return RequireUser(tokens, resolver)(inner), tokens
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Detail
}

func TestRequireUser_NoHeader(t *testing.T) {
	handler, _ := newProtectedHandler(t, &stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want Bearer", got)
	}
	if got := decodeDetail(t, rec); got != "Not authenticated" {
		t.Errorf("detail = %q, want %q", got, "Not authenticated")
	}
}

func TestRequireUser_WrongScheme(t *testing.T) {
	handler, _ := newProtectedHandler(t, &stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic YWxpY2U6cGFzcw==")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeDetail(t, rec); got != "Not authenticated" {
		t.Errorf("detail = %q, want %q", got, "Not authenticated")
	}
}

func TestRequireUser_BadToken(t *testing.T) {
	handler, _ := newProtectedHandler(t, &stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeDetail(t, rec); got != "Could not validate credentials" {
		t.Errorf("detail = %q, want %q", got, "Could not validate credentials")
	}
}

func TestRequireUser_UnknownSubject(t *testing.T) {
	// A valid token whose subject no longer exists in the store: the user
	// was deleted after the token was issued.
	handler, tokens := newProtectedHandler(t, &stubResolver{users: map[string]*model.User{}})

	token, err := tokens.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeDetail(t, rec); got != "Could not validate credentials" {
		t.Errorf("detail = %q, want %q", got, "Could not validate credentials")
	}
}

func TestRequireUser_ExpiredToken(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"alice": {Pseudo: "alice"},
	}}
	handler, tokens := newProtectedHandler(t, resolver)

	token, err := tokens.IssueWithDuration("alice", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeDetail(t, rec); got != "Could not validate credentials" {
		t.Errorf("detail = %q, want %q", got, "Could not validate credentials")
	}
}

func TestRequireUser_ValidToken(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"alice": {ID: "id-1", Pseudo: "alice"},
	}}
	handler, tokens := newProtectedHandler(t, resolver)

	token, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "alice" {
		t.Errorf("principal pseudo = %q, want alice", got)
	}
}

func TestRequireUser_SchemeCaseInsensitive(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"alice": {Pseudo: "alice"},
	}}
	handler, tokens := newProtectedHandler(t, resolver)

	token, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for lowercase scheme", rec.Code)
	}
}

func TestPrincipalFromContext_Absent(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Error("PrincipalFromContext on a bare context should report false")
	}
}
