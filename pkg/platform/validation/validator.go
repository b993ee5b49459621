// Package validation wraps go-playground/validator with the project's custom
// tags and turns failures into domain validation errors.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "kycflow/pkg/domain-errors"
)

var attrKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// Validator validates structs using `validate` tags.
type Validator struct {
	validate *validator.Validate
}

// New returns a validator with the custom tags registered.
func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.registerCustomValidations()
	return v
}

// Validate returns a CodeValidation error listing every failed field.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", e.Namespace(), e.Tag()))
			}
			return dErrors.New(dErrors.CodeValidation, "validation failed: "+strings.Join(msgs, "; "))
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "validation failed")
	}
	return nil
}

// ValidateStructured returns field -> message, or nil when valid.
func (v *Validator) ValidateStructured(i any) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				msg := fmt.Sprintf("failed validation on '%s'", e.Tag())
				switch e.Tag() {
				case "required":
					msg = "This field is required"
				case "oneof":
					msg = fmt.Sprintf("Must be one of: %s", e.Param())
				case "max":
					msg = fmt.Sprintf("Must be at most %s characters", e.Param())
				case "attr_key":
					msg = "Must be a lower_snake_case attribute key"
				}
				errs[e.Field()] = msg
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsAttributeKey reports whether s is an acceptable attribute key.
func IsAttributeKey(s string) bool {
	return attrKeyPattern.MatchString(s)
}

func (v *Validator) registerCustomValidations() {
	_ = v.validate.RegisterValidation("attr_key", func(fl validator.FieldLevel) bool {
		return IsAttributeKey(fl.Field().String())
	})
}
