package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/domain/mocks"
	"github.com/user/storefront/internal/pkg/token"
)

func TestLogging(t *testing.T) {
	users := mocks.NewMockUserRepository()
	signer := token.NewSigner("logging-test-secret", 0)
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	user := &domain.User{
		ID:          uuid.New(),
		Email:       "ada@example.com",
		Permissions: []domain.Permission{domain.PermissionUser},
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	session, err := signer.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	lastLine := func(buf *bytes.Buffer) map[string]any {
		t.Helper()
		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", buf.String(), err)
		}
		return entry
	}

	t.Run("logs the resolved user id and status", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		chain := Session(signer, users, discard)(Logging(logger)(inner))

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session})
		chain.ServeHTTP(httptest.NewRecorder(), req)

		entry := lastLine(&buf)
		if entry["user_id"] != user.ID.String() {
			t.Errorf("expected user_id %q, got %q", user.ID.String(), entry["user_id"])
		}
		if entry["method"] != http.MethodGet || entry["path"] != "/cart" {
			t.Errorf("unexpected request fields in %v", entry)
		}
		if entry["status"] != float64(http.StatusTeapot) {
			t.Errorf("expected status %d, got %v", http.StatusTeapot, entry["status"])
		}
	})

	t.Run("requests without a session log as anonymous", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		chain := Session(signer, users, discard)(Logging(logger)(inner))

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		chain.ServeHTTP(httptest.NewRecorder(), req)

		if entry := lastLine(&buf); entry["user_id"] != "anonymous" {
			t.Errorf("expected user_id %q, got %q", "anonymous", entry["user_id"])
		}
	})

	t.Run("garbage tokens also log as anonymous", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		chain := Session(signer, users, discard)(Logging(logger)(inner))

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})
		chain.ServeHTTP(httptest.NewRecorder(), req)

		if entry := lastLine(&buf); entry["user_id"] != "anonymous" {
			t.Errorf("expected user_id %q, got %q", "anonymous", entry["user_id"])
		}
	})
}
