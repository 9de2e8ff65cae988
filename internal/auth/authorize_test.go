package auth

import (
	"errors"
	"testing"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
)

func TestAuthorize_OwnerAllowed(t *testing.T) {
	owner := &model.User{Pseudo: "alice"}

	if err := Authorize(owner, owner); err != nil {
		t.Errorf("Authorize(owner, owner) error = %v, want nil", err)
	}
}

func TestAuthorize_AdminAllowed(t *testing.T) {
	admin := &model.User{Pseudo: "root", IsAdmin: true}
	owner := &model.User{Pseudo: "alice"}

	if err := Authorize(admin, owner); err != nil {
		t.Errorf("Authorize(admin, owner) error = %v, want nil", err)
	}
}

func TestAuthorize_StrangerForbidden(t *testing.T) {
	stranger := &model.User{Pseudo: "mallory"}
	owner := &model.User{Pseudo: "alice"}

	err := Authorize(stranger, owner)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("Authorize(stranger, owner) error = %v, want ErrForbidden", err)
	}
	if got, want := err.Error(), "Access denied for the resource"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestAuthorize_NotSymmetricForNonAdmins(t *testing.T) {
	alice := &model.User{Pseudo: "alice"}
	bob := &model.User{Pseudo: "bob"}

	if err := Authorize(alice, bob); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Authorize(alice, bob) error = %v, want ErrForbidden", err)
	}
	if err := Authorize(bob, alice); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Authorize(bob, alice) error = %v, want ErrForbidden", err)
	}
}
