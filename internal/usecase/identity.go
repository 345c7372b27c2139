package usecase

import (
	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
)

// Identity carries the requester explicitly through every operation: who is
// calling (possibly nobody) and which permissions they hold. There is no
// ambient request state anywhere in the core.
type Identity struct {
	UserID      uuid.UUID
	Permissions []domain.Permission
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// Authenticated reports whether the identity belongs to a signed-in user.
func (id Identity) Authenticated() bool {
	return id.UserID != uuid.Nil
}
