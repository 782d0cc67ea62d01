package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/foodcourt/internal/apperr"
)

var validate = validator.New()

// ValidateStruct checks a request payload and converts failures into a
// Validation error carrying field-level detail.
func ValidateStruct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Internal(err)
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[strings.ToLower(fe.Field())] = validationMessage(fe)
	}
	return apperr.Validation(fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
