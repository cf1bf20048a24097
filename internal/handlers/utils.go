package handlers

import (
	"fmt"

	"subscription-tracker/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrInvalidID is returned when a path identifier is not a UUID
var ErrInvalidID = fmt.Errorf("invalid identifier")

func getIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// bindAndValidate binds the request into req and runs the registered validator.
// On failure it has already written the error response and returns false.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return false, SendValidationError(c, err)
	}
	return true, nil
}

func invalidIDError(c echo.Context, what string) error {
	return SendError(c, errors.ValidationInvalidID, errors.WithDetails(fmt.Sprintf("Invalid %s ID", what)))
}
