package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

// RequestValidator plugs go-playground/validator into echo.Echo.Validator.
// Field errors are reported under their JSON names as a single bad_request.
type RequestValidator struct {
	validate *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return &RequestValidator{validate: v}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(req any) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}

	problems := make([]string, len(fields))
	for i, fe := range fields {
		problems[i] = describe(fe)
	}
	return domain.ErrInvalidInput.WithDescription("%s", strings.Join(problems, "; "))
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"gt":       "must be greater than %s",
	"min":      "must have at least %s entries",
	"max":      "must be at most %s characters",
	"oneof":    "must be one of: %s",
}

func describe(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, fe.Param())
	}
	return fe.Field() + " " + msg
}
