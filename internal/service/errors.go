package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidCredentials is returned for any login failure. Unknown email and
// wrong password deliberately collapse into one generic error so responses do
// not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrOutsideEventWindow is returned when a session's time range does not lie
// inside its owning event's time range.
var ErrOutsideEventWindow = errors.New("session dates must be within the event window")

// ErrSessionOverlap is returned when a new session overlaps an existing
// session of the same event.
var ErrSessionOverlap = errors.New("session overlaps an existing session of the event")

// ValidationError reports malformed input, carrying a field-to-message map so
// the HTTP layer can surface per-field feedback.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// newValidator builds a validator that reports field names by their json
// struct tag, so validation failures key the field map exactly as the
// payload spells them.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// asValidationError converts validator/v10 failures into a ValidationError.
// Other errors pass through unchanged.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return "is invalid"
	}
}
