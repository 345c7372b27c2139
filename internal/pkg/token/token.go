package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid is returned for missing, malformed, or badly-signed tokens.
var ErrInvalid = errors.New("invalid session token")

// Claims defines the custom claims for a session JWT.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Signer issues and verifies stateless session tokens. Validity is purely
// cryptographic: there is no server-side session table or revocation list,
// so signing out only clears the client-held artifact.
//
// By default tokens carry no expiry claim, matching the original contract
// where the cookie lifetime bounds the session. A non-zero maxAge opts into
// explicit expiry as a hardening measure.
type Signer struct {
	secret []byte
	maxAge time.Duration
}

// NewSigner creates a Signer. maxAge of zero disables the expiry claim.
func NewSigner(secret string, maxAge time.Duration) *Signer {
	return &Signer{secret: []byte(secret), maxAge: maxAge}
}

// Issue creates a signed session token for the given user.
func (s *Signer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.maxAge))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a session token, returning the embedded user
// id. It never panics on malformed input; any failure maps to ErrInvalid.
func (s *Signer) Verify(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, ErrInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalid
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalid
	}

	return claims.UserID, nil
}
