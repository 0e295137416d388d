package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

type stubSession struct {
	id *domain.Identity
}

func (s stubSession) Current() (domain.Identity, bool) {
	if s.id == nil {
		return domain.Identity{}, false
	}
	return *s.id, true
}

var jane = &domain.Identity{ID: "2", Email: "employee@restaurant.com", Name: "Jane Employee", Role: domain.RoleEmployee}

func signToken(t *testing.T, sub string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{"sub": sub, "role": "employee"})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string, session SessionReader) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", session)(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "2" || c.Get(CtxName) != "Jane Employee" || c.Get(CtxRole) != "employee" {
			t.Fatalf("claims not injected: %v %v %v", c.Get(CtxUserID), c.Get(CtxName), c.Get(CtxRole))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, called := runAuth(t, "Bearer "+signToken(t, "2", jwt.SigningMethodHS256), stubSession{id: jane})
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		session SessionReader
	}{
		{"missing header", "", stubSession{id: jane}},
		{"invalid header format", "Token abc", stubSession{id: jane}},
		{"invalid token", "Bearer not-a-token", stubSession{id: jane}},
		{"wrong algorithm", "Bearer " + signToken(t, "2", jwt.SigningMethodHS512), stubSession{id: jane}},
		{"logged out", "Bearer " + signToken(t, "2", jwt.SigningMethodHS256), stubSession{}},
		{"other identity", "Bearer " + signToken(t, "1", jwt.SigningMethodHS256), stubSession{id: jane}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called := runAuth(t, tc.header, tc.session)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
