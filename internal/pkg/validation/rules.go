package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Limits shared by request binding and service checks
var (
	CourseNameMaxLength  = 100
	CourseLevelMaxLength = 50
	CourseMinYear        = 1900
	CourseMaxYear        = 2200

	StudentGenderMaxLength  = 50
	StudentAddressMaxLength = 300
)

// StringValidation checks a trimmed string value
type StringValidation struct {
	Field    string
	Value    string
	MaxLen   int
	Required bool
}

// NewStringValidation creates a required string validation. The value is trimmed.
func NewStringValidation(field, value string) *StringValidation {
	return &StringValidation{
		Field:    field,
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMaxLength sets the maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns a message describing the first failed rule, or "" when valid
func (v *StringValidation) Validate() string {
	if v.Value == "" {
		if v.Required {
			return v.Field + " is required"
		}
		return ""
	}
	if v.MaxLen > 0 && utf8.RuneCountInString(v.Value) > v.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", v.Field, v.MaxLen)
	}
	return ""
}

// NumericValidation checks an integer against an inclusive range
type NumericValidation struct {
	Field string
	Value int
	Min   int
	Max   int
}

// NewNumericValidation creates a numeric validation without bounds
func NewNumericValidation(field string, value int) *NumericValidation {
	return &NumericValidation{Field: field, Value: value}
}

// Between sets the inclusive bounds
func (v *NumericValidation) Between(min, max int) *NumericValidation {
	v.Min, v.Max = min, max
	return v
}

// Validate returns a message describing the failed bound, or "" when valid
func (v *NumericValidation) Validate() string {
	if v.Value < v.Min || (v.Max != 0 && v.Value > v.Max) {
		return fmt.Sprintf("%s must be between %d and %d", v.Field, v.Min, v.Max)
	}
	return ""
}

// First returns the first non-empty message
func First(messages ...string) string {
	for _, m := range messages {
		if m != "" {
			return m
		}
	}
	return ""
}
