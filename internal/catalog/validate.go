package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"telugudb/pkg/models"
)

// ValidationError rejects a write. Problems lists each violation as
// "<json path> <reason>".
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "_id" {
			return "id"
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks a complete candidate document before it is written.
func Validate(c *models.Content) error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate content: %w", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
		}
	}

	if c.Type == models.ContentTypeMovie {
		if strings.TrimSpace(c.DownloadLink) == "" {
			problems = append(problems, "downloadLink is required for movies")
		}
		if len(c.Seasons) > 0 {
			problems = append(problems, "seasons are only allowed on series")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ApplyPatch merges p into c and validates the result. Changing the
// content type is rejected.
func ApplyPatch(c *models.Content, p models.ContentPatch) error {
	if p.Type != nil && *p.Type != c.Type {
		return &ValidationError{Problems: []string{
			fmt.Sprintf("type cannot change from %s to %s", c.Type, *p.Type),
		}}
	}
	p.Apply(c)
	return Validate(c)
}

// describe turns a validator failure into "<path> <reason>".
func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	// Drop the root struct name ("Content.").
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}

	switch fe.Tag() {
	case "required", "notblank":
		return path + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", path, fe.Param())
	case "gte", "lte":
		return path + " must be between 0 and 10"
	case "unique":
		return fmt.Sprintf("%s must have unique %s values", path, lowerFirst(fe.Param()))
	default:
		return fmt.Sprintf("%s failed %s", path, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
