package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Olatundeawo/ordora/internal/service"
)

// errJSON maps service sentinels to HTTP responses.
func errJSON(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, service.ErrGateway):
		code = http.StatusBadGateway
	}
	return c.JSON(code, map[string]string{"error": err.Error()})
}
