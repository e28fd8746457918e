// Package validation collects field-level rule violations in the order
// fields are checked, so a request reports every structural error in a
// single pass before any business rule runs.
package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// ValidEmail reports whether s is syntactically a valid email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Errors accumulates messages per field, preserving insertion order of
// both fields and messages. It implements error so services can return
// it directly.
type Errors struct {
	order  []string
	fields map[string][]string
}

func NewErrors() *Errors {
	return &Errors{fields: make(map[string][]string)}
}

func (e *Errors) Add(field, message string) {
	if !slices.Contains(e.order, field) {
		e.order = append(e.order, field)
	}
	e.fields[field] = append(e.fields[field], message)
}

func (e *Errors) Empty() bool {
	return len(e.order) == 0
}

func (e *Errors) Has(field string) bool {
	_, ok := e.fields[field]
	return ok
}

// Fields returns the field -> messages map for serialization.
func (e *Errors) Fields() map[string][]string {
	return e.fields
}

// First returns the first violation in field order.
func (e *Errors) First() string {
	if len(e.order) == 0 {
		return ""
	}
	return e.fields[e.order[0]][0]
}

func (e *Errors) Error() string {
	if e.Empty() {
		return "validation failed"
	}
	return e.First()
}

// label turns a field key into the human form used in messages,
// e.g. "old_password" -> "old password".
func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func Required(field string) string {
	return fmt.Sprintf("The %s field is required.", label(field))
}

func Email(field string) string {
	return fmt.Sprintf("The %s must be a valid email address.", label(field))
}

func Min(field string, n int) string {
	return fmt.Sprintf("The %s must be at least %d characters.", label(field), n)
}

func Max(field string, n int) string {
	return fmt.Sprintf("The %s may not be greater than %d characters.", label(field), n)
}

func Confirmed(field string) string {
	return fmt.Sprintf("The %s confirmation does not match.", label(field))
}

func Unique(field string) string {
	return fmt.Sprintf("The %s has already been taken.", label(field))
}

func NotAllowed(field string) string {
	return fmt.Sprintf("The %s field is not allowed.", label(field))
}
