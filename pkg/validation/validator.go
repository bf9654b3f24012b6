// Package validation checks request payloads against their declared schemas
// before any persistence access.
//
// Schemas are expressed as `validate` struct tags; on failure only the first
// violated field is reported, as an InvalidInput error whose message names
// the field by its JSON tag.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/minicrm-io/minicrm/pkg/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names, not Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Struct validates s against its `validate` tags. It returns nil on success
// or an InvalidInput apperr carrying the first violation's message.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok || len(violations) == 0 {
		return apperr.Invalid("invalid request payload")
	}

	return apperr.Invalid(message(violations[0]))
}

// message renders a single violation in the same style the API has always
// used: `"<field>" <constraint>`.
func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "gt":
		return fmt.Sprintf("%q must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%q must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
