package core

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tag rules and maps the first failure onto the
// package's sentinel errors so callers can use errors.Is.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := fieldErrs[0]
	switch {
	case fe.StructField() == "Bank" && fe.Tag() == "required":
		return ErrEmptyBank
	case fe.StructField() == "Holder" && fe.Tag() == "required":
		return ErrEmptyHolder
	case fe.StructField() == "AccountID" && fe.Tag() == "required":
		return ErrEmptyAccountID
	case fe.StructField() == "Color":
		return fmt.Errorf("%w: %q", ErrInvalidColor, fe.Value())
	case fe.Tag() == "max":
		return fmt.Errorf("%w: %s too long (max %s characters)", ErrValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s failed %s", ErrValidation, fe.Field(), fe.Tag())
	}
}
