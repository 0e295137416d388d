package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restaurant/storage-tracker/internal/api/middleware"
)

// actingEmployee returns the display name injected by the Auth middleware.
// An empty name means the middleware did not run for this route.
func actingEmployee(c echo.Context) (string, error) {
	name, _ := c.Get(middleware.CtxName).(string)
	if name == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return name, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
