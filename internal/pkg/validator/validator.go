package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ticketadmin/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	register(validate)

	// gin binds request bodies with its own engine; teach it the same rules.
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(engine)
	}
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("team_permission", func(fl validator.FieldLevel) bool {
		return domain.IsTeamPermission(fl.Field().String())
	})
	_ = v.RegisterValidation("reason", func(fl validator.FieldLevel) bool {
		return domain.ValidateReason(fl.Field().String()) == nil
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	return FieldErrors(validate.Struct(v))
}

// FieldErrors turns a binding or validation error into field level messages.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		var syntax *json.SyntaxError
		var typ *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typ):
			return map[string]string{typ.Field: fmt.Sprintf("The %s field has an invalid type.", typ.Field)}
		case errors.As(err, &syntax):
			return map[string]string{"body": "The request body is not valid JSON."}
		default:
			return map[string]string{"body": "The request body could not be read."}
		}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldKey(fe)] = message(fe)
	}
	return out
}

// fieldKey drops the struct name prefix: "Req.permissions[1]" -> "permissions.1".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must have at least %s items.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid. Allowed: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "team_permission":
		return fmt.Sprintf("The selected permission %q is invalid.", fe.Value())
	case "reason":
		return fmt.Sprintf("The reason must be at least %d characters.", domain.MinReasonLength)
	case "gt", "gte":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
