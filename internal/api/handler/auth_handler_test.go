package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/sphere-api/internal/api/middleware"
	"github.com/mentorlink/sphere-api/internal/core/domain"
	"github.com/mentorlink/sphere-api/internal/core/ports"
)

type stubAuthService struct {
	registered *ports.RegisterInput
	registerFn func(ports.RegisterInput) (*domain.User, error)
	loginFn    func(username, password string) (string, *domain.User, error)
	verifyErr  error
	resetErr   error
	userByID   map[string]*domain.User
}

func (s *stubAuthService) Register(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
	s.registered = &input
	if s.registerFn != nil {
		return s.registerFn(input)
	}
	return &domain.User{ID: "u1", Username: input.Username, Email: input.Email}, nil
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (string, *domain.User, error) {
	if s.loginFn != nil {
		return s.loginFn(username, password)
	}
	return "tok", &domain.User{ID: "u1", Username: username}, nil
}

func (s *stubAuthService) VerifyEmail(context.Context, string) error { return s.verifyErr }

func (s *stubAuthService) RequestPasswordReset(context.Context, string) error { return s.resetErr }

func (s *stubAuthService) ResetPassword(context.Context, string, string) error { return s.resetErr }

func (s *stubAuthService) CurrentUser(_ context.Context, userID string) (*domain.User, error) {
	if u, ok := s.userByID[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubAuthService) ListUsers(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.userByID))
	for _, u := range s.userByID {
		out = append(out, u)
	}
	return out, nil
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/users/signup",
		`{"username":"alice","password":"p@ssw0rd1","email":"alice@x.com","is_student":true}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp signupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.ID != "u1" {
		t.Fatalf("expected created id in response, got %q", resp.ID)
	}
	if svc.registered == nil || !svc.registered.IsStudent {
		t.Fatalf("register input not forwarded: %+v", svc.registered)
	}
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodPost, "/users/signup",
		`{"username":"alice","password":"short","email":"alice@x.com"}`)
	err := h.Signup(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %v", err)
	}
}

func TestAuthHandler_Signup_Duplicate(t *testing.T) {
	svc := &stubAuthService{registerFn: func(ports.RegisterInput) (*domain.User, error) {
		return nil, domain.ErrUserExists
	}}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(http.MethodPost, "/users/signup",
		`{"username":"alice","password":"p@ssw0rd1","email":"alice@x.com"}`)
	if err := h.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to propagate, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(http.MethodPost, "/users/login",
		`{"username":"alice","password":"p@ssw0rd1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Token != "tok" || resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := &stubAuthService{loginFn: func(string, string) (string, *domain.User, error) {
		return "", nil, domain.ErrInvalidCredentials
	}}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(http.MethodPost, "/users/login",
		`{"username":"alice","password":"wrongpass"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(http.MethodGet, "/users/verify-email?token=abc", "")
	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_VerifyEmail_BadToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{verifyErr: domain.ErrInvalidToken})

	// The link is opened in a browser, so a bad token renders as 400, not 403.
	c, _ := newTestContext(http.MethodGet, "/users/verify-email?token=abc", "")
	err := h.VerifyEmail(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_VerifyEmail_MissingToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodGet, "/users/verify-email", "")
	err := h.VerifyEmail(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %v", err)
	}
}

func TestAuthHandler_RequestPasswordReset_UnknownEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{resetErr: domain.ErrUserNotFound})

	c, _ := newTestContext(http.MethodPost, "/users/request-password-reset",
		`{"email":"ghost@x.com"}`)
	if err := h.RequestPasswordReset(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound to propagate, got %v", err)
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(http.MethodPost, "/users/reset-password",
		`{"token":"abc","newPassword":"newpass34"}`)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ResetPassword_BadToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{resetErr: domain.ErrInvalidToken})

	c, _ := newTestContext(http.MethodPost, "/users/reset-password",
		`{"token":"abc","newPassword":"newpass34"}`)
	err := h.ResetPassword(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &stubAuthService{userByID: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice"},
	}}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/users/me", "")
	c.Set(middleware.CtxUserID, "u1")
	if err := h.Me(c); err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthHandler_Me_NoIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodGet, "/users/me", "")
	if err := h.Me(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
