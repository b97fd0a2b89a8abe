package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoginAndVerify(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)

	token, err := svc.Login("staff", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user != "staff" {
		t.Errorf("expected subject staff, got %s", user)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)

	for _, tc := range [][2]string{{"staff", "wrong"}, {"other", "secret"}, {"", ""}} {
		if _, err := svc.Login(tc[0], tc[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q): expected ErrInvalidCredentials, got %v", tc[0], tc[1], err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)
	other := NewService("staff", "secret", "another-secret-another-secret-xx")

	token, _ := svc.Login("staff", "secret")
	if _, err := other.Verify(token); err == nil {
		t.Error("expected verification to fail with a different secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, _ := svc.Login("staff", "secret")
	if _, err := svc.Verify(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestMiddleware(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)
	token, _ := svc.Login("staff", "secret")

	e := echo.New()
	handler := func(c echo.Context) error {
		if c.Get("auth_user").(string) != "staff" {
			t.Error("expected auth_user to be set")
		}
		return c.String(http.StatusOK, "ok")
	}
	h := Middleware(svc)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_Rejections(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	h := Middleware(svc)(handler)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		err := h(e.NewContext(req, rec))
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %v", tc.name, err)
		}
	}
}

func TestLoginHandler(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"user":"staff","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "token") {
		t.Errorf("expected token in response, got %s", rec.Body.String())
	}
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	svc := NewService("staff", "secret", testSecret)
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"user":"staff","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Login(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
