package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/secondchance/secondchance-backend/api/middleware"
	authsvc "github.com/secondchance/secondchance-backend/internal/auth"
	"github.com/secondchance/secondchance-backend/internal/users"
	pkgauth "github.com/secondchance/secondchance-backend/pkg/auth"
	"github.com/secondchance/secondchance-backend/pkg/config"
	pkgerrors "github.com/secondchance/secondchance-backend/pkg/errors"
)

type stubAuthService struct {
	login  func(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error)
	logout func(ctx context.Context, tokenID string) error
}

func (s *stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	panic("unimplemented")
}

func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	if s.login != nil {
		return s.login(ctx, req)
	}
	panic("unimplemented")
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string) error {
	if s.logout != nil {
		return s.logout(ctx, tokenID)
	}
	panic("unimplemented")
}

func (s *stubAuthService) Resolve(ctx context.Context, profile *pkgauth.GoogleUser) (*authsvc.AuthResponse, error) {
	panic("unimplemented")
}

func TestAuthLoginReturnsTokenEnvelope(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
			if req.Email != "user@example.com" {
				t.Fatalf("unexpected email %q", req.Email)
			}
			return &authsvc.AuthResponse{Token: "signed-token", User: &users.UserDTO{Email: req.Email}}, nil
		},
	}

	body := `{"email":"user@example.com","password":"hunter2hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "signed-token") {
		t.Fatalf("expected token in response got %s", rec.Body.String())
	}
}

func TestAuthLoginMapsCredentialFailures(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}

	body := `{"email":"user@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("expected generic message got %s", rec.Body.String())
	}
}

func TestAuthLogoutUsesContextTokenID(t *testing.T) {
	var revoked string
	svc := &stubAuthService{
		logout: func(ctx context.Context, tokenID string) error {
			revoked = tokenID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middleware.WithTokenID(context.Background(), "jti-123"))
	rec := httptest.NewRecorder()
	AuthLogout(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if revoked != "jti-123" {
		t.Fatalf("expected jti-123 revoked got %q", revoked)
	}
}

func TestGoogleCallbackRedirectsFailuresToFrontend(t *testing.T) {
	frontend := config.FrontendConfig{URL: "http://localhost:3000", LoginFailPath: "/login-failed"}
	provider, err := pkgauth.NewGoogleProvider(config.GoogleOAuthConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost:8080/auth/google/callback",
	})
	if err != nil {
		t.Fatalf("build provider: %v", err)
	}

	handler := GoogleCallback(provider, &stubAuthService{}, frontend, testLogger())

	// state mismatch
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc&code=xyz", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "different"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://localhost:3000/login-failed" {
		t.Fatalf("expected failure redirect got %s", loc)
	}

	// missing code
	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "abc"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if loc := rec.Header().Get("Location"); loc != "http://localhost:3000/login-failed" {
		t.Fatalf("expected failure redirect got %s", loc)
	}
}

func TestGoogleRedirectSetsStateCookie(t *testing.T) {
	provider, err := pkgauth.NewGoogleProvider(config.GoogleOAuthConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost:8080/auth/google/callback",
	})
	if err != nil {
		t.Fatalf("build provider: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	GoogleRedirect(provider, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect got %d", rec.Code)
	}

	var state string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == oauthStateCookie {
			state = cookie.Value
		}
	}
	if state == "" {
		t.Fatalf("expected state cookie to be set")
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "state="+state) {
		t.Fatalf("expected consent url to carry state, got %s", loc)
	}
}
