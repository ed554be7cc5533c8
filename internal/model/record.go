package model

import (
	"fmt"

	"github.com/spf13/cast"
)

// Record is one account row keyed by field name, as received over the wire.
// Values are numbers, strings or nil; absent keys behave like nil.
type Record map[string]any

// Text returns the field rendered as a string, or "" when absent or nil.
func (r Record) Text(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	// numbers render in plain decimal: 1000000 -> "1000000"
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// Value returns the raw field value, nil when absent.
func (r Record) Value(field string) any {
	return r[field]
}

// Label is the Account Label text.
func (r Record) Label() string { return r.Text(ColAccountLabel) }

// Status is the Subscription Status text as stored (not normalized).
func (r Record) Status() string { return r.Text(ColSubscriptionStatus) }
