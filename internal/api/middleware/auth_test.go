package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/newsnotify/notification-system/internal/core/domain"
	"github.com/newsnotify/notification-system/internal/token"
)

type stubUserFinder struct {
	user *domain.User
	err  error
}

func (s *stubUserFinder) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserFinder) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserFinder) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	clone := *s.user
	return &clone, nil
}

func (s *stubUserFinder) SetResetToken(context.Context, string, string, time.Time) error {
	return nil
}

func (s *stubUserFinder) FindByResetToken(context.Context, string, time.Time) (*domain.User, error) {
	return nil, domain.ErrInvalidResetToken
}

func (s *stubUserFinder) UpdatePassword(context.Context, string, string) error { return nil }
func (s *stubUserFinder) MarkVerified(context.Context, string) error           { return nil }

func (s *stubUserFinder) AppendNotificationID(context.Context, string, string) error { return nil }
func (s *stubUserFinder) RemoveNotificationID(context.Context, string, string) error { return nil }

func runGuard(t *testing.T, tokens *token.Issuer, users *stubUserFinder, header string) (*httptest.ResponseRecorder, bool, *domain.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen *domain.User
	handler := Auth(tokens, users)(func(c echo.Context) error {
		called = true
		seen, _ = c.Get(UserContextKey).(*domain.User)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, seen
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := token.NewIssuer("secret", time.Hour)
	signed, err := tokens.Issue("user_1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	users := &stubUserFinder{user: &domain.User{
		ID:                 "user_1",
		Email:              "ana@x.com",
		PasswordHash:       "$2a$10$hash",
		PasswordResetToken: "leftover",
		IsVerified:         true,
	}}

	rec, called, seen := runGuard(t, tokens, users, "Bearer "+signed)
	if !called {
		t.Fatalf("next not called, status %d", rec.Code)
	}
	if seen == nil || seen.ID != "user_1" {
		t.Fatalf("user not stored in context: %+v", seen)
	}
	if seen.PasswordHash != "" || seen.PasswordResetToken != "" {
		t.Fatalf("secret fields must be stripped: %+v", seen)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	tokens := token.NewIssuer("secret", time.Hour)
	users := &stubUserFinder{user: &domain.User{ID: "user_1"}}

	rec, called, _ := runGuard(t, tokens, users, "")
	if called {
		t.Fatalf("next must not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongScheme(t *testing.T) {
	tokens := token.NewIssuer("secret", time.Hour)
	users := &stubUserFinder{user: &domain.User{ID: "user_1"}}

	rec, called, _ := runGuard(t, tokens, users, "Basic abc123")
	if called {
		t.Fatalf("next must not run with a non-bearer scheme")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_MalformedToken(t *testing.T) {
	tokens := token.NewIssuer("secret", time.Hour)
	users := &stubUserFinder{user: &domain.User{ID: "user_1"}}

	rec, called, _ := runGuard(t, tokens, users, "Bearer not-a-token")
	if called {
		t.Fatalf("next must not run with a malformed token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired := token.NewIssuer("secret", -time.Minute)
	signed, err := expired.Issue("user_1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	tokens := token.NewIssuer("secret", time.Hour)
	users := &stubUserFinder{user: &domain.User{ID: "user_1"}}

	rec, called, _ := runGuard(t, tokens, users, "Bearer "+signed)
	if called {
		t.Fatalf("next must not run with an expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_DeletedUser(t *testing.T) {
	tokens := token.NewIssuer("secret", time.Hour)
	signed, err := tokens.Issue("user_gone")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	users := &stubUserFinder{err: domain.ErrUserNotFound}

	rec, called, _ := runGuard(t, tokens, users, "Bearer "+signed)
	if called {
		t.Fatalf("next must not run for a deleted account")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
