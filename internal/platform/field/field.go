// Package field carries tri-state optional values for partial updates:
// a value can be absent (leave the column untouched), an explicit SQL NULL,
// or a concrete value.
package field

import (
	"strings"
	"time"
)

type state uint8

const (
	stateUnset state = iota
	stateNull
	stateSet
)

// Value is unset in its zero form.
type Value struct {
	value any
	state state
}

func Of(v any) Value {
	return Value{value: v, state: stateSet}
}

func Null() Value {
	return Value{state: stateNull}
}

// OfString returns an unset value for blank input, matching provider
// payloads where an absent attribute arrives as an empty string.
func OfString(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Value{}
	}
	return Of(trimmed)
}

// FromPtr returns an unset value for nil pointers.
func FromPtr[T any](p *T) Value {
	if p == nil {
		return Value{}
	}
	return Of(*p)
}

// OfDate stores the date-only part of t, unset when t is nil.
func OfDate(t *time.Time) Value {
	if t == nil {
		return Value{}
	}
	return Of(t.UTC().Truncate(24 * time.Hour))
}

// IsSet reports whether the value participates in a write (concrete value or
// explicit null).
func (v Value) IsSet() bool {
	return v.state != stateUnset
}

func (v Value) IsNull() bool {
	return v.state == stateNull
}

// Interface returns the SQL argument for the value; explicit null maps to
// nil. Calling it on an unset value also returns nil, so callers must gate
// on IsSet first.
func (v Value) Interface() any {
	if v.state != stateSet {
		return nil
	}
	return v.value
}
