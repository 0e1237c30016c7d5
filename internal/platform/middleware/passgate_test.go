package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func gateRequest(t *testing.T, password string, decorate func(*http.Request)) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := PasswordGate(password)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return h(c)
}

func TestPasswordGate_DisabledWhenEmpty(t *testing.T) {
	if err := gateRequest(t, "", nil); err != nil {
		t.Errorf("empty password should disable the gate, got %v", err)
	}
}

func TestPasswordGate_RejectsMissingPassword(t *testing.T) {
	err := gateRequest(t, "secret", nil)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestPasswordGate_AcceptsHeader(t *testing.T) {
	err := gateRequest(t, "secret", func(r *http.Request) {
		r.Header.Set("X-App-Password", "secret")
	})
	if err != nil {
		t.Errorf("expected pass, got %v", err)
	}
}

func TestPasswordGate_AcceptsBearerToken(t *testing.T) {
	err := gateRequest(t, "secret", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer secret")
	})
	if err != nil {
		t.Errorf("expected pass, got %v", err)
	}
}

func TestPasswordGate_RejectsWrongPassword(t *testing.T) {
	err := gateRequest(t, "secret", func(r *http.Request) {
		r.Header.Set("X-App-Password", "wrong")
	})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
