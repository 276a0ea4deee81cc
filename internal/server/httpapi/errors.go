package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenkil247/taskmanager/internal/common"
)

// writeError maps a domain error to a status code and a short JSON message.
// Anything unrecognized is a 500 with a generic body so internals never leak.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return unauthenticated(c)
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal server error"})
	}
}
