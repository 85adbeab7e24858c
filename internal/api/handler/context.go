package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelanza/freelanza-backend/internal/api/middleware"
)

// ctxUsername extracts the username injected by the Auth middleware. An empty
// value means the route was mounted without Auth.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get(middleware.CtxUsername).(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
