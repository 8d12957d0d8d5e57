// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// Limits applied to note fields.
const (
	MaxTitleLength = 500
	MaxTagLength   = 64
	MaxTags        = 50
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoComma rejects commas. Tag filters arrive as a comma-separated query parameter.
var NoComma = validation.NewStringRuleWithError(
	func(s string) bool {
		return !strings.Contains(s, ",")
	},
	validation.NewError("validation_no_comma", "must not contain commas"),
)

// TagRules validates a single tag.
var TagRules = []validation.Rule{
	validation.Required,
	NotBlank,
	NoWhitespace,
	NoComma,
	validation.RuneLength(1, MaxTagLength),
}

// Tags validates a tag list: at most MaxTags entries, each passing TagRules.
var Tags = []validation.Rule{
	validation.Length(0, MaxTags),
	validation.Each(TagRules...),
}
