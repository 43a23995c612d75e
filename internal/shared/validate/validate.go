package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// domainPattern matches lowercase dotted domains whose top-level label is
// alphabetic and at least two characters long.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*\.[a-z]{2,}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report field names from json tags so violations match the wire format.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = val.RegisterValidation("tenantdomain", func(fl validator.FieldLevel) bool {
		return domainPattern.MatchString(fl.Field().String())
	})

	return val
}

// Struct evaluates the struct's validation tags and returns one message per
// violated field, or nil when the value is valid.
func Struct(s any) map[string]string {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(violations))
	for _, fe := range violations {
		out[fe.Field()] = message(fe)
	}
	return out
}

// Domain reports whether raw is a well-formed lowercase email domain.
func Domain(raw string) bool {
	return domainPattern.MatchString(raw)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "must be a well-formed id"
	case "tenantdomain":
		return "must be a lowercase domain like example.edu"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
