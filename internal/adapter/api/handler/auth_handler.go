package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/user/storefront/internal/adapter/api/middleware"
	"github.com/user/storefront/internal/usecase"
)

// cookieMaxAge is the client-held session lifetime: one year, the bound on
// session validity since tokens themselves carry no expiry by default.
const cookieMaxAge = 365 * 24 * time.Hour

// AuthHandler handles signup, signin, signout, and the password-reset flow.
type AuthHandler struct {
	auth         *usecase.AuthService
	logger       *slog.Logger
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger, secureCookie: secureCookie}
}

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, session, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, session, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, user)
}

// Signout clears the client-held session artifact. Sessions are stateless,
// so there is nothing to revoke server-side.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Signout(r.Context(), middleware.IdentityFrom(r.Context())); err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "goodbye"})
}

type resetRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.auth.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reset token sent"})
}

type redeemResetRequest struct {
	ResetToken string `json:"reset_token"`
	Password   string `json:"password"`
}

func (h *AuthHandler) RedeemReset(w http.ResponseWriter, r *http.Request) {
	var req redeemResetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, session, err := h.auth.RedeemReset(r.Context(), req.ResetToken, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
