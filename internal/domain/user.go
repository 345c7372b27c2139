package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Permission is an opaque capability label. A user holds an unordered,
// unique set of them.
type Permission string

const (
	PermissionUser             Permission = "USER"
	PermissionAdmin            Permission = "ADMIN"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions is the closed vocabulary of valid permission labels.
var AllPermissions = []Permission{
	PermissionUser,
	PermissionAdmin,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

// ValidPermission reports whether p belongs to the closed vocabulary.
func ValidPermission(p Permission) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// User represents a storefront account. Email is stored normalized to
// lowercase and is unique. The reset token pair is only ever set and
// cleared by the credential issuer.
type User struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // Not exposed in API responses
	Permissions  []Permission `json:"permissions"`
	ResetToken   string       `json:"-"`
	ResetExpiry  *time.Time   `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// UserRepository defines the store interface for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)

	// UpdatePermissions replaces the user's permission set.
	UpdatePermissions(ctx context.Context, id uuid.UUID, perms []Permission) error

	// SetResetToken attaches a reset token and its expiry to the user.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error

	// RedeemResetToken atomically finds the user holding an unexpired token,
	// replaces their password hash, and clears the token pair. It returns
	// ErrNotFound when no user holds such a token, leaving no window where a
	// consumed or expired token remains redeemable.
	RedeemResetToken(ctx context.Context, token string, newHash string, now time.Time) (*User, error)
}
