package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func init() {
	validate = validator.New()
	// lower-case words joined by single hyphens: "launch", "brand-refresh-2024"
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

// Validate struct fields. Keys are the Go field names, values the failed tag.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range validationErrors {
		errors[err.Namespace()] = err.Tag()
	}
	return errors
}

// FieldsError carries the result of Validate through an error return.
type FieldsError map[string]string

func (e FieldsError) Error() string {
	parts := make([]string, 0, len(e))
	for field, tag := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, tag))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, ", ")
}

// Check is Validate for the write paths of services.
func Check(v interface{}) error {
	if errs := Validate(v); errs != nil {
		return FieldsError(errs)
	}
	return nil
}
