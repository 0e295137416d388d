package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/restaurant/storage-tracker/internal/api/middleware"
	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/service"
	"github.com/restaurant/storage-tracker/internal/infrastructure/db/memory"
)

var handlerNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func newInventoryHandler(t *testing.T) *InventoryHandler {
	t.Helper()
	store := service.NewInventoryStore(memory.NewKeyValueStore(), nil, zerolog.Nop(),
		service.WithDemoData(true),
		service.WithClock(func() time.Time { return handlerNow }),
	)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	h := NewInventoryHandler(store)
	h.now = func() time.Time { return handlerNow }
	return h
}

func asEmployee(c echo.Context, name string) echo.Context {
	c.Set(middleware.CtxName, name)
	return c
}

func TestInventoryHandler_ListItems_Filters(t *testing.T) {
	h := newInventoryHandler(t)

	c, rec := newJSONContext(http.MethodGet, "/v1/items?search=BEEF", "")
	if err := h.ListItems(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp itemListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Shown != 1 || resp.Total != 3 || resp.Items[0].Name != "Ground Beef" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Items[0].ExpiringSoon {
		t.Fatalf("Ground Beef should not be expiring soon")
	}
}

func TestInventoryHandler_ListItems_ExpiringSoonFlag(t *testing.T) {
	h := newInventoryHandler(t)

	c, rec := newJSONContext(http.MethodGet, "/v1/items?category=produce", "")
	if err := h.ListItems(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp itemListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Shown != 1 || !resp.Items[0].ExpiringSoon {
		t.Fatalf("expected tomatoes to be flagged, got %+v", resp)
	}
}

func TestInventoryHandler_CreateItem_DefaultsAddedBy(t *testing.T) {
	h := newInventoryHandler(t)

	body := `{"name":"Basmati Rice","category":"dry-goods","quantity":12.5,"unit":"kg","location":"Dry Store"}`
	c, rec := newJSONContext(http.MethodPost, "/v1/items", body)
	if err := h.CreateItem(asEmployee(c, "Jane Employee")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["addedBy"] != "Jane Employee" || resp["quantity"] != 12.5 {
		t.Fatalf("unexpected item: %+v", resp)
	}

	snap := h.store.Snapshot()
	if len(snap.Items) != 4 || snap.Activities[0].Details != "Added 12.5 kg to Dry Store" {
		t.Fatalf("unexpected snapshot: %d items, first activity %+v", len(snap.Items), snap.Activities[0])
	}
}

func TestInventoryHandler_CreateItem_Invalid(t *testing.T) {
	h := newInventoryHandler(t)

	body := `{"name":"Mystery","category":"snacks","quantity":1,"unit":"kg","location":"Dry Store"}`
	c, _ := newJSONContext(http.MethodPost, "/v1/items", body)
	if code := httpCode(t, h.CreateItem(asEmployee(c, "Jane Employee"))); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if len(h.store.Snapshot().Items) != 3 {
		t.Fatalf("invalid item must not be stored")
	}
}

func TestInventoryHandler_DecreaseQuantity_ClampsAtZero(t *testing.T) {
	h := newInventoryHandler(t)

	c, rec := newJSONContext(http.MethodPost, "/v1/items/3/decrease", `{"amount":100}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.DecreaseQuantity(asEmployee(c, "Jane Employee")); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["quantity"] != float64(0) {
		t.Fatalf("expected quantity 0, got %v", resp["quantity"])
	}
	if got := h.store.Snapshot().Activities[0].Details; got != "Took 100 gallons (8 → 0)" {
		t.Fatalf("unexpected details: %q", got)
	}
}

func TestInventoryHandler_IncreaseQuantity_RejectsNonPositive(t *testing.T) {
	h := newInventoryHandler(t)

	c, _ := newJSONContext(http.MethodPost, "/v1/items/2/increase", `{"amount":0}`)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if code := httpCode(t, h.IncreaseQuantity(asEmployee(c, "Jane Employee"))); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestInventoryHandler_DeleteItem(t *testing.T) {
	h := newInventoryHandler(t)

	c, rec := newJSONContext(http.MethodDelete, "/v1/items/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.DeleteItem(asEmployee(c, "John Manager")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	first := h.store.Snapshot().Activities[0]
	if first.Action != domain.ActionRemoved || first.EmployeeName != "John Manager" {
		t.Fatalf("unexpected activity: %+v", first)
	}
}

func TestInventoryHandler_DeleteItem_NotFound(t *testing.T) {
	h := newInventoryHandler(t)

	c, _ := newJSONContext(http.MethodDelete, "/v1/items/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.DeleteItem(asEmployee(c, "John Manager")); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if len(h.store.Snapshot().Activities) != 2 {
		t.Fatalf("no activity should be logged for an unknown id")
	}
}

func TestInventoryHandler_UpdateItem_AttributesToBody(t *testing.T) {
	h := newInventoryHandler(t)

	c, rec := newJSONContext(http.MethodPatch, "/v1/items/2", `{"location":"Freezer C"}`)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.UpdateItem(asEmployee(c, "Jane Employee")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	first := h.store.Snapshot().Activities[0]
	if first.Details != "Updated item details" || first.EmployeeName != "Unknown" {
		t.Fatalf("unexpected activity: %+v", first)
	}
}

func TestInventoryHandler_ListActivities_InvalidRange(t *testing.T) {
	h := newInventoryHandler(t)

	c, _ := newJSONContext(http.MethodGet, "/v1/activities?range=year", "")
	if code := httpCode(t, h.ListActivities(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestInventoryHandler_CreateActivity(t *testing.T) {
	h := newInventoryHandler(t)

	body := `{"action":"moved","itemName":"Whole Milk","details":"Moved to Walk-in Cooler B"}`
	c, rec := newJSONContext(http.MethodPost, "/v1/activities", body)
	if err := h.CreateActivity(asEmployee(c, "Jane Employee")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, rec = newJSONContext(http.MethodGet, "/v1/activities?action=moved", "")
	if err := h.ListActivities(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp activityListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Shown != 1 || resp.Total != 3 || resp.Activities[0].EmployeeName != "Jane Employee" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInventoryHandler_ActivityStats(t *testing.T) {
	h := newInventoryHandler(t)

	c, rec := newJSONContext(http.MethodGet, "/v1/activities/stats", "")
	if err := h.ActivityStats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var stats service.ActivityStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if stats.Total != 2 || stats.ThisWeek != 2 || stats.Today != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
