package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type normalizer interface {
	normalize()
}

// bindAndValidate decodes the request into req, normalizes it when it knows
// how, and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	return c.Validate(req)
}
