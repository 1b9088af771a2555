package core

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	MinCategoryNameLen    = 3
	MinSubcategoryNameLen = 2
)

var (
	taxonomyNameRe = regexp.MustCompile(`^[A-Za-z0-9 -]+$`)
	validate       = newValidator()
)

// ValidationError reports a rejected category or subcategory name.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("taxonomyname", func(fl validator.FieldLevel) bool {
		return taxonomyNameRe.MatchString(fl.Field().String())
	})
	return v
}

// ValidateCategoryName enforces at least 3 characters of letters, digits,
// spaces and hyphens.
func ValidateCategoryName(name string) error {
	return validateName("category", name, MinCategoryNameLen)
}

// ValidateSubcategoryName enforces at least 2 characters of letters, digits,
// spaces and hyphens.
func ValidateSubcategoryName(name string) error {
	return validateName("subcategory", name, MinSubcategoryNameLen)
}

func validateName(field, name string, minLen int) error {
	tag := fmt.Sprintf("min=%d,taxonomyname", minLen)
	if err := validate.Var(name, tag); err != nil {
		return &ValidationError{
			Field:  field,
			Value:  name,
			Reason: fmt.Sprintf("must be at least %d characters long and contain only letters, numbers, spaces, and hyphens", minLen),
		}
	}
	return nil
}
