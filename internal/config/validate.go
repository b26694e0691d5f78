package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/seqalign/align"
)

var validate = newValidator()

// newValidator registers the custom tags:
//   - alignmode: accepted by align.ParseMode,
//   - gapmarker: a single printable, non-space rune (align.WithGapMarker rules).
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("alignmode", func(fl validator.FieldLevel) bool {
		_, err := align.ParseMode(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("gapmarker", func(fl validator.FieldLevel) bool {
		r := []rune(fl.Field().String())
		return len(r) == 1 && unicode.IsPrint(r[0]) && !unicode.IsSpace(r[0])
	})

	return v
}

// Validate checks every struct tag and reports all failures at once.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, formatValidationError(err))
	}

	return nil
}

// ValidateStruct validates any tagged struct with the shared validator.
// The service uses it for request payloads.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return errors.New(formatValidationError(err))
	}

	return nil
}

// formatValidationError joins field errors into one readable message.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}

	return strings.Join(msgs, "; ")
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s character(s)", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gte", "gt":
		return fmt.Sprintf("%s must be %s %s", field, e.Tag(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "alignmode":
		return fmt.Sprintf("%s must be global or local", field)
	case "gapmarker":
		return fmt.Sprintf("%s must be a printable, non-space symbol", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
