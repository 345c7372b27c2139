package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/storefront/internal/adapter/api/middleware"
	"github.com/user/storefront/internal/domain/mocks"
	"github.com/user/storefront/internal/pkg/token"
	"github.com/user/storefront/internal/usecase"
)

func newTestAuthHandler(t *testing.T) (*AuthHandler, *mocks.MockUserRepository, *token.Signer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := mocks.NewMockUserRepository()
	signer := token.NewSigner("handler-test-secret", 0)
	auth := usecase.NewAuthService(users, signer, &mocks.MockMailer{}, logger, nil, time.Hour, "http://localhost:7777", 60, 10)
	return NewAuthHandler(auth, logger, false), users, signer
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAuthHandlerSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectCookie   bool
	}{
		{
			name:           "Valid Signup",
			body:           `{"name": "Ada", "email": "ada@example.com", "password": "correct horse"}`,
			expectedStatus: http.StatusCreated,
			expectCookie:   true,
		},
		{
			name:           "Short Password",
			body:           `{"email": "ada@example.com", "password": "short"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad JSON",
			body:           `{"email": "ada@example.com"`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown Field",
			body:           `{"email": "ada@example.com", "password": "correct horse", "admin": true}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestAuthHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			h.Signup(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}

			cookie := sessionCookie(t, rr)
			if tt.expectCookie {
				if cookie == nil || cookie.Value == "" {
					t.Fatal("expected a session cookie to be set")
				}
				if !cookie.HttpOnly {
					t.Error("session cookie must be HttpOnly")
				}
			} else if cookie != nil {
				t.Errorf("expected no session cookie, got %q", cookie.Value)
			}
		})
	}
}

func TestAuthHandlerSignin(t *testing.T) {
	h, _, _ := newTestAuthHandler(t)

	// Seed an account through the signup handler.
	signup := httptest.NewRequest(http.MethodPost, "/signup",
		bytes.NewBufferString(`{"email": "ada@example.com", "password": "correct horse"}`))
	h.Signup(httptest.NewRecorder(), signup)

	t.Run("valid credentials set a session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signin",
			bytes.NewBufferString(`{"email": "ada@example.com", "password": "correct horse"}`))
		rr := httptest.NewRecorder()
		h.Signin(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if c := sessionCookie(t, rr); c == nil || c.Value == "" {
			t.Fatal("expected a session cookie to be set")
		}
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		for _, body := range []string{
			`{"email": "ada@example.com", "password": "wrong password"}`,
			`{"email": "nobody@example.com", "password": "correct horse"}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/signin", bytes.NewBufferString(body))
			rr := httptest.NewRecorder()
			h.Signin(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
			if c := sessionCookie(t, rr); c != nil {
				t.Error("failed signin must not set a session cookie")
			}
		}
	})
}

func TestAuthHandlerSignout(t *testing.T) {
	h, users, signer := newTestAuthHandler(t)

	signup := httptest.NewRequest(http.MethodPost, "/signup",
		bytes.NewBufferString(`{"email": "ada@example.com", "password": "correct horse"}`))
	signupRec := httptest.NewRecorder()
	h.Signup(signupRec, signup)
	session := sessionCookie(t, signupRec)
	if session == nil {
		t.Fatal("signup did not set a session cookie")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	protected := middleware.Session(signer, users, logger)(http.HandlerFunc(h.Signout))

	t.Run("authenticated signout clears the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signout", nil)
		req.AddCookie(session)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		cleared := sessionCookie(t, rr)
		if cleared == nil || cleared.MaxAge >= 0 {
			t.Error("signout must expire the session cookie")
		}
	})

	t.Run("anonymous signout is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signout", nil)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("garbage token reads as anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signout", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "not-a-token"})
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})
}
