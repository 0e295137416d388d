package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/restaurant/storage-tracker/internal/api/handler"
	"github.com/restaurant/storage-tracker/internal/core/service"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/memory"
)

const testSecret = "test-secret"

func do(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// The echo prometheus middleware registers its collectors globally, so the
// router is built once and every flow runs as a subtest.
func TestRouter(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()

	creds, err := memory.NewDemoCredentialStore(bcrypt.MinCost)
	require.NoError(t, err)

	session := service.NewSessionService(creds, kv, testSecret, time.Hour, zerolog.Nop())
	session.Init(ctx)

	inventory := service.NewInventoryStore(kv, nil, zerolog.Nop(), service.WithDemoData(true))
	require.NoError(t, inventory.Init(ctx))

	e := NewRouter(Dependencies{
		Log:       zerolog.Nop(),
		JWTSecret: testSecret,
		Session:   session,
		Inventory: inventory,
		Readiness: map[string]handler.Pinger{"storage": kv},
	})

	t.Run("health is public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/health", "", "").Code)
		assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/health/ready", "", "").Code)
	})

	t.Run("inventory requires a token", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/v1/items", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing authorization header")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/auth/login", "", `{"email":"manager@restaurant.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
	})

	var token string
	t.Run("login then use inventory", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/auth/login", "", `{"email":"employee@restaurant.com","password":"password123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var auth struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
		require.NotEmpty(t, auth.Token)
		token = auth.Token

		rec = do(t, e, http.MethodPost, "/v1/items", token,
			`{"name":"Olive Oil","category":"dry-goods","quantity":6,"unit":"liters","location":"Dry Store"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		snap := inventory.Snapshot()
		require.Len(t, snap.Items, 4)
		assert.Equal(t, "Jane Employee", snap.Activities[0].EmployeeName)

		rec = do(t, e, http.MethodDelete, "/v1/items/does-not-exist", token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(t, e, http.MethodGet, "/auth/me", token, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Jane Employee")
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		require.NotEmpty(t, token)
		assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodPost, "/auth/logout", token, "").Code)
		assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/v1/items", token, "").Code)

		rec := do(t, e, http.MethodGet, "/auth/session", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/metrics", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "storage_tracker_inventory_mutations_total")
	})
}
