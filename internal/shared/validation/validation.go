// Package validation builds the struct validator shared by the domain and the HTTP handlers.
package validation

import (
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// New returns a validator with the custom tags used across the module:
//
//	datetime=<layout>  the field parses with time.Parse(layout, value)
//	keyvalue           the field is "Key=Value" with a non-empty key
func New() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("datetime", isDateTime)
	_ = v.RegisterValidation("keyvalue", isKeyValue)
	return v
}

func isDateTime(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(fl.Param(), value)
	return err == nil
}

func isKeyValue(fl validator.FieldLevel) bool {
	key, _, ok := strings.Cut(fl.Field().String(), "=")
	return ok && key != ""
}
