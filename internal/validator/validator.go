// Package validator provides a Validator type for accumulating field-level
// validation errors, plus the sanitizers applied to submitted form values.
package validator

import (
	"strings"
	"time"
	"unicode/utf8"
)

// FieldError is one failed check, in the shape the form views list them.
type FieldError struct {
	Field   string
	Message string
}

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
	order  []string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.order = append(v.order, key)
	}
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(validator.NotBlank(title), "title", "Title must not be empty.")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// FieldErrors returns the recorded errors in the order they were added.
func (v *Validator) FieldErrors() []FieldError {
	out := make([]FieldError, 0, len(v.order))
	for _, key := range v.order {
		out = append(out, FieldError{Field: key, Message: v.Errors[key]})
	}
	return out
}

// NotBlank returns true if value contains anything besides whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MinChars returns true if value has at least n characters.
func MinChars(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

// MaxChars returns true if value has no more than n characters.
func MaxChars(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}

// OptionalDate returns true if value is blank or a valid YYYY-MM-DD date.
func OptionalDate(value string) bool {
	if strings.TrimSpace(value) == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	return err == nil
}
