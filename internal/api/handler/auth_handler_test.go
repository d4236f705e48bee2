package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/newsnotify/notification-system/internal/api"
	"github.com/newsnotify/notification-system/internal/api/handler"
	"github.com/newsnotify/notification-system/internal/core/domain"
	"github.com/newsnotify/notification-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) error
	loginFn    func(ctx context.Context, email, password string) (string, error)
	forgotFn   func(ctx context.Context, email string) error
	resetFn    func(ctx context.Context, token, password string) error
	verifyFn   func(ctx context.Context, token string) (string, error)
	resendFn   func(ctx context.Context, email string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if s.registerFn == nil {
		return nil
	}
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if s.loginFn == nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if s.forgotFn == nil {
		return nil
	}
	return s.forgotFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) error {
	if s.resetFn == nil {
		return nil
	}
	return s.resetFn(ctx, token, password)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if s.verifyFn == nil {
		return "", domain.ErrTokenInvalid
	}
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) ResendVerification(ctx context.Context, email string) error {
	if s.resendFn == nil {
		return nil
	}
	return s.resendFn(ctx, email)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func registerAuthRoutes(svc ports.AuthService) *echo.Echo {
	e := newTestEcho()
	h := handler.NewAuthHandler(svc)
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)
	e.POST("/api/auth/forgot-password", h.ForgotPassword)
	e.POST("/api/auth/reset-password/:token", h.ResetPassword)
	return e
}

func TestAuthHandler_Register_Success(t *testing.T) {
	var got ports.RegisterInput
	e := registerAuthRoutes(&stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) error {
			got = in
			return nil
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ana","surname":"Diaz","email":"ana@x.com","password":"hunter2boat"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Email != "ana@x.com" || got.Name != "Ana" || got.Surname != "Diaz" {
		t.Fatalf("unexpected input passed to service: %+v", got)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "User registered successfully. Please check your email." {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) error {
			return domain.ErrEmailTaken
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@x.com","password":"hunter2boat"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) error {
			t.Fatalf("service must not be called on invalid input")
			return nil
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@x.com","password":"short"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_EmailDeliveryFailure(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) error {
			return domain.ErrEmailDelivery
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ana","email":"ana@x.com","password":"hunter2boat"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			if email != "ana@x.com" || password != "hunter2boat" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "token123", nil
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"ana@x.com","password":"hunter2boat"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	if resp["token"] != "token123" {
		t.Fatalf("expected token in response, got %v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"ana@x.com","password":"wrongpassword"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["error"] != "incorrect email or password" {
		t.Fatalf("unexpected error message: %v", resp["error"])
	}
}

func TestAuthHandler_Login_NotVerified(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrNotVerified
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"ana@x.com","password":"hunter2boat"}`)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, error) {
			t.Fatalf("service must not be called on a bind failure")
			return "", nil
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/login", "{")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_ForgotPassword_AlwaysOK(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		forgotFn: func(context.Context, string) error { return nil },
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/forgot-password",
		`{"email":"ghost@x.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["message"] != "If the email exists in our system, we have sent a password reset link to it." {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_ForgotPassword_RateLimited(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		forgotFn: func(context.Context, string) error { return domain.ErrTooManyRequests },
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/forgot-password",
		`{"email":"ana@x.com"}`)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthHandler_ResetPassword_Success(t *testing.T) {
	var gotToken string
	e := registerAuthRoutes(&stubAuthService{
		resetFn: func(_ context.Context, token, password string) error {
			gotToken = token
			if password != "newpassword1" {
				t.Fatalf("unexpected password: %s", password)
			}
			return nil
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/reset-password/abc123",
		`{"password":"newpassword1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotToken != "abc123" {
		t.Fatalf("path token not forwarded, got %q", gotToken)
	}
}

func TestAuthHandler_ResetPassword_InvalidToken(t *testing.T) {
	e := registerAuthRoutes(&stubAuthService{
		resetFn: func(context.Context, string, string) error {
			return domain.ErrInvalidResetToken
		},
	})

	rec := doJSON(e, http.MethodPost, "/api/auth/reset-password/stale",
		`{"password":"newpassword1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
