package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/restaurant/storage-tracker/internal/api/metrics"
	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/ports"
	"github.com/restaurant/storage-tracker/internal/core/service"
)

// InventoryHandler serves the item collection and the activity log.
type InventoryHandler struct {
	store ports.InventoryStore
	now   func() time.Time
}

func NewInventoryHandler(store ports.InventoryStore) *InventoryHandler {
	return &InventoryHandler{store: store, now: time.Now}
}

func (h *InventoryHandler) recordMutation(op string, err error) {
	switch {
	case err == nil:
		metrics.InventoryMutationsTotal.WithLabelValues(op).Inc()
	case errors.Is(err, domain.ErrItemNotFound):
		metrics.InventoryNotFoundTotal.WithLabelValues(op).Inc()
	}
}

// ListItems handles GET /v1/items.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Case-insensitive name filter"
// @Param        category  query     string  false  "Category filter or all"
// @Success      200       {object}  itemListResponse
// @Router       /v1/items [get]
func (h *InventoryHandler) ListItems(c echo.Context) error {
	items := h.store.Snapshot().Items
	filtered := service.FilterItems(items, service.ItemFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	})

	return c.JSON(http.StatusOK, itemListResponse{
		Items: toItemResponses(filtered, h.now()),
		Shown: len(filtered),
		Total: len(items),
	})
}

// ItemStats handles GET /v1/items/stats.
//
// @Summary      Item statistics
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.ItemStats
// @Router       /v1/items/stats [get]
func (h *InventoryHandler) ItemStats(c echo.Context) error {
	return c.JSON(http.StatusOK, service.ItemStatistics(h.store.Snapshot().Items, h.now()))
}

// GroupedItems handles GET /v1/items/grouped.
//
// @Summary      Items grouped by category
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Case-insensitive name filter"
// @Param        category  query     string  false  "Category filter or all"
// @Success      200       {array}   categoryGroupResponse
// @Router       /v1/items/grouped [get]
func (h *InventoryHandler) GroupedItems(c echo.Context) error {
	now := h.now()
	filtered := service.FilterItems(h.store.Snapshot().Items, service.ItemFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	})

	groups := service.GroupByCategory(filtered)
	resp := make([]categoryGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = categoryGroupResponse{Category: g.Category, Count: len(g.Items), Items: toItemResponses(g.Items, now)}
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateItem handles POST /v1/items. addedBy defaults to the caller.
//
// @Summary      Add an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createItemRequest  true  "Item details"
// @Success      201   {object}  itemResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/items [post]
func (h *InventoryHandler) CreateItem(c echo.Context) error {
	employee, err := actingEmployee(c)
	if err != nil {
		return err
	}
	var req createItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.AddedBy == "" {
		req.AddedBy = employee
	}

	item, err := h.store.AddItem(c.Request().Context(), ports.NewItemInput{
		Name:           req.Name,
		Category:       domain.Category(req.Category),
		Quantity:       req.Quantity,
		Unit:           domain.Unit(req.Unit),
		Location:       req.Location,
		ExpirationDate: req.ExpirationDate,
		AddedBy:        req.AddedBy,
	})
	h.recordMutation("add", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, itemResponse{StorageItem: item, ExpiringSoon: service.IsExpiringSoon(item, h.now())})
}

// UpdateItem handles PATCH /v1/items/:id. The activity entry is attributed
// to the addedBy field of the body, not to the caller.
//
// @Summary      Update item fields
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Item id"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  itemResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/items/{id} [patch]
func (h *InventoryHandler) UpdateItem(c echo.Context) error {
	var req updateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := ports.ItemPatch{
		Name:           req.Name,
		Quantity:       req.Quantity,
		Location:       req.Location,
		ExpirationDate: req.ExpirationDate,
		AddedBy:        req.AddedBy,
	}
	if req.Category != nil {
		cat := domain.Category(*req.Category)
		patch.Category = &cat
	}
	if req.Unit != nil {
		unit := domain.Unit(*req.Unit)
		patch.Unit = &unit
	}

	item, err := h.store.UpdateItem(c.Request().Context(), c.Param("id"), patch)
	h.recordMutation("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, itemResponse{StorageItem: item, ExpiringSoon: service.IsExpiringSoon(item, h.now())})
}

// DeleteItem handles DELETE /v1/items/:id.
//
// @Summary      Remove an item
// @Tags         items
// @Security     BearerAuth
// @Param        id   path      string  true  "Item id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/items/{id} [delete]
func (h *InventoryHandler) DeleteItem(c echo.Context) error {
	employee, err := actingEmployee(c)
	if err != nil {
		return err
	}

	err = h.store.RemoveItem(c.Request().Context(), c.Param("id"), employee)
	h.recordMutation("remove", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// IncreaseQuantity handles POST /v1/items/:id/increase.
//
// @Summary      Add stock to an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Item id"
// @Param        body  body      adjustQuantityRequest  true  "Amount to add"
// @Success      200   {object}  itemResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/items/{id}/increase [post]
func (h *InventoryHandler) IncreaseQuantity(c echo.Context) error {
	return h.adjust(c, "increase", h.store.IncreaseQuantity)
}

// DecreaseQuantity handles POST /v1/items/:id/decrease. Taking more than is
// stocked leaves the item at zero.
//
// @Summary      Take stock from an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Item id"
// @Param        body  body      adjustQuantityRequest  true  "Amount to take"
// @Success      200   {object}  itemResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/items/{id}/decrease [post]
func (h *InventoryHandler) DecreaseQuantity(c echo.Context) error {
	return h.adjust(c, "decrease", h.store.DecreaseQuantity)
}

type adjustFunc = func(ctx context.Context, id string, amount decimal.Decimal, employee string) (domain.StorageItem, error)

func (h *InventoryHandler) adjust(c echo.Context, op string, fn adjustFunc) error {
	employee, err := actingEmployee(c)
	if err != nil {
		return err
	}
	var req adjustQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := fn(c.Request().Context(), c.Param("id"), req.Amount, employee)
	h.recordMutation(op, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, itemResponse{StorageItem: item, ExpiringSoon: service.IsExpiringSoon(item, h.now())})
}

// ListActivities handles GET /v1/activities.
//
// @Summary      List activity entries, newest first
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Matches item, employee or details"
// @Param        action  query     string  false  "added, updated, removed, moved or all"
// @Param        range   query     string  false  "today, week, month or all"
// @Success      200     {object}  activityListResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/activities [get]
func (h *InventoryHandler) ListActivities(c echo.Context) error {
	f := service.ActivityFilter{
		Search: c.QueryParam("search"),
		Action: c.QueryParam("action"),
		Range:  c.QueryParam("range"),
	}
	if !service.ValidRange(f.Range) {
		return echo.NewHTTPError(http.StatusBadRequest, "range must be one of: today week month all")
	}

	now := h.now()
	entries := h.store.Snapshot().Activities
	filtered := service.FilterActivities(entries, f, now)

	return c.JSON(http.StatusOK, activityListResponse{
		Activities: toActivityResponses(filtered, now),
		Shown:      len(filtered),
		Total:      len(entries),
	})
}

// ActivityStats handles GET /v1/activities/stats.
//
// @Summary      Activity statistics
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.ActivityStats
// @Router       /v1/activities/stats [get]
func (h *InventoryHandler) ActivityStats(c echo.Context) error {
	return c.JSON(http.StatusOK, service.ActivityStatistics(h.store.Snapshot().Activities, h.now()))
}

// CreateActivity handles POST /v1/activities. employeeName defaults to the
// caller.
//
// @Summary      Record a custom activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createActivityRequest  true  "Activity"
// @Success      201   {object}  domain.ActivityLogEntry
// @Failure      400   {object}  errorResponse
// @Router       /v1/activities [post]
func (h *InventoryHandler) CreateActivity(c echo.Context) error {
	employee, err := actingEmployee(c)
	if err != nil {
		return err
	}
	var req createActivityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.EmployeeName == "" {
		req.EmployeeName = employee
	}

	entry := h.store.AddActivity(c.Request().Context(), ports.NewActivityInput{
		Action:       domain.Action(req.Action),
		ItemName:     req.ItemName,
		Details:      req.Details,
		EmployeeName: req.EmployeeName,
	})
	h.recordMutation("activity", nil)
	return c.JSON(http.StatusCreated, entry)
}
