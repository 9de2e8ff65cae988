package auth

import (
	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
)

// Authorize decides whether principal may act on a resource owned by owner.
//
// The rule is owner-or-admin: a user may mutate their own profile and their
// own snippets, an admin may mutate anything. Callers must resolve the
// target resource *before* calling this — a missing resource is a 404 and
// the existence check strictly precedes the ownership check.
func Authorize(principal, owner *model.User) error {
	if principal.IsAdmin || principal.Pseudo == owner.Pseudo {
		return nil
	}
	return apperror.Forbidden()
}
