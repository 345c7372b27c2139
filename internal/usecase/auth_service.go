package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/user/storefront/internal/adapter/metrics"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/pkg/password"
	"github.com/user/storefront/internal/pkg/token"
)

// resetTokenBytes is the size of the reset secret: 160 bits, hex encoded.
const resetTokenBytes = 20

// AuthService is the credential issuer: it creates accounts, exchanges
// credentials for session tokens, and runs the password-reset flow.
type AuthService struct {
	users       domain.UserRepository
	signer      *token.Signer
	mailer      domain.Mailer
	logger      *slog.Logger
	metrics     *metrics.StoreMetrics
	resetTTL    time.Duration
	frontendURL string

	// Per-email signin limiter against credential guessing.
	limiterMu   sync.Mutex
	limiters    map[string]*rate.Limiter
	signinRate  rate.Limit
	signinBurst int

	now func() time.Time
}

// NewAuthService creates a new AuthService. signinPerMin and signinBurst
// bound signin attempts per email.
func NewAuthService(
	users domain.UserRepository,
	signer *token.Signer,
	mailer domain.Mailer,
	logger *slog.Logger,
	m *metrics.StoreMetrics,
	resetTTL time.Duration,
	frontendURL string,
	signinPerMin, signinBurst int,
) *AuthService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		users:       users,
		signer:      signer,
		mailer:      mailer,
		logger:      logger,
		metrics:     m,
		resetTTL:    resetTTL,
		frontendURL: frontendURL,
		limiters:    make(map[string]*rate.Limiter),
		signinRate:  rate.Limit(float64(signinPerMin) / 60.0),
		signinBurst: signinBurst,
		now:         time.Now,
	}
}

// Signup creates an account with the default USER permission and signs the
// new user in.
func (s *AuthService) Signup(ctx context.Context, name, email, plaintext string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(plaintext) < password.MinLength {
		return nil, "", fmt.Errorf("%w: password must have at least %d characters", domain.ErrValidation, password.MinLength)
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, "", err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Permissions:  []domain.Permission{domain.PermissionUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.countAuth("signup", "error")
		return nil, "", err
	}

	session, err := s.signer.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.countAuth("signup", "success")
	s.logger.Info("user signed up", "user_id", user.ID)
	return user, session, nil
}

// Signin exchanges email+password for a session token. Failures are
// reported uniformly as a validation error so the response does not reveal
// whether the email exists.
func (s *AuthService) Signin(ctx context.Context, email, plaintext string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if !s.allowSignin(email) {
		s.countAuth("signin", "rate_limited")
		return nil, "", fmt.Errorf("%w: too many attempts, try again later", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.countAuth("signin", "failure")
			return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrValidation)
		}
		return nil, "", err
	}

	if !password.Compare(plaintext, user.PasswordHash) {
		s.countAuth("signin", "failure")
		return nil, "", fmt.Errorf("%w: invalid email or password", domain.ErrValidation)
	}

	session, err := s.signer.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.countAuth("signin", "success")
	return user, session, nil
}

// Signout is stateless: sessions carry no server-side record, so revocation
// amounts to the transport layer discarding the client-held cookie. This
// method exists so the operation has a single home if revocation state is
// ever added.
func (s *AuthService) Signout(ctx context.Context, ident Identity) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequestReset issues a single-use reset credential valid for the
// configured TTL (one hour by default) and mails it out-of-band. Mail
// delivery is fire-and-forget: a send failure never rolls back token
// issuance.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.countAuth("reset_request", "unknown_email")
			return fmt.Errorf("%w: no user found for email", domain.ErrNotFound)
		}
		return err
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	resetToken := hex.EncodeToString(buf)
	expiry := s.now().UTC().Add(s.resetTTL)

	if err := s.users.SetResetToken(ctx, user.ID, resetToken, expiry); err != nil {
		s.countAuth("reset_request", "error")
		return err
	}

	// The token is already persisted; deliver the mail without holding the
	// request open and without tying delivery to the caller's context.
	go func() {
		mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		body := fmt.Sprintf(
			`Your password reset token is ready. <a href="%s/reset?resetToken=%s">Click here to reset your password.</a>`,
			s.frontendURL, resetToken,
		)
		if err := s.mailer.Send(mailCtx, user.Email, "Your password reset token", body); err != nil {
			s.logger.Error("failed to send reset mail", "error", err, "user_id", user.ID)
		}
	}()

	s.countAuth("reset_request", "success")
	s.logger.Info("reset credential issued", "user_id", user.ID)
	return nil
}

// RedeemReset consumes a reset credential: it rehashes the new password and
// clears the token pair in one atomic store operation, then signs the user
// in. A token that is unknown, already consumed, or past its expiry fails
// with ErrTokenInvalidOrExpired.
func (s *AuthService) RedeemReset(ctx context.Context, resetToken, newPassword string) (*domain.User, string, error) {
	if len(newPassword) < password.MinLength {
		return nil, "", fmt.Errorf("%w: password must have at least %d characters", domain.ErrValidation, password.MinLength)
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.RedeemResetToken(ctx, resetToken, hash, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.countAuth("reset_redeem", "failure")
			return nil, "", domain.ErrTokenInvalidOrExpired
		}
		return nil, "", err
	}

	session, err := s.signer.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.countAuth("reset_redeem", "success")
	s.logger.Info("password reset redeemed", "user_id", user.ID)
	return user, session, nil
}

func (s *AuthService) allowSignin(email string) bool {
	if s.signinRate <= 0 {
		return true
	}
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	lim, ok := s.limiters[email]
	if !ok {
		lim = rate.NewLimiter(s.signinRate, s.signinBurst)
		s.limiters[email] = lim
	}
	return lim.Allow()
}

func (s *AuthService) countAuth(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.AuthAttempts.WithLabelValues(operation, outcome).Inc()
	}
}
