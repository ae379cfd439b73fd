package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type CodedResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func paramUint(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(value), nil
}

func queryUint(c echo.Context, name string) uint {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}

func formUint(c echo.Context, name string) (uint, error) {
	raw := c.FormValue(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(value), nil
}
