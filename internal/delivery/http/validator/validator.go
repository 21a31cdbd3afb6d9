// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type customValidator struct {
	validate *validator.Validate
}

// New creates the echo validator used by all request bindings.
func New() echo.Validator {
	return &customValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *customValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
