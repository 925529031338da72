// Package jsonval coerces values pulled out of untyped JSON documents
// (map[string]any trees from encoding/json) into narrow Go types.
// Every function degrades to a zero/nil result instead of failing, which
// is the contract structured-data extraction relies on: a malformed field
// is a missing field, never an error.
package jsonval

import (
	"strconv"
	"strings"
)

// Text returns the value as a string. Numbers are formatted without a
// trailing ".0" so json-decoded integers stay readable as identifiers.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Float returns the value as a float, accepting json numbers and numeric
// strings. Anything else is nil.
func Float(v any) *float64 {
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case int:
		f := float64(t)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

// Int returns the value as an integer. Json numbers are truncated,
// strings must parse as a whole number.
func Int(v any) *int {
	switch t := v.(type) {
	case float64:
		n := int(t)
		return &n
	case int:
		n := t
		return &n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

// Map returns the value as an object, or nil.
func Map(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// List returns the value as a list, or nil.
func List(v any) []any {
	l, _ := v.([]any)
	return l
}

// FirstMap returns the value itself when it is an object, or the first
// object inside it when it is a list. Used for fields like "address"
// that sites emit in both shapes.
func FirstMap(v any) map[string]any {
	if m := Map(v); m != nil {
		return m
	}
	for _, item := range List(v) {
		if m := Map(item); m != nil {
			return m
		}
	}
	return nil
}

// Strings returns a list value as its string elements, stringifying
// non-string members. A bare string becomes a singleton list.
func Strings(v any) []string {
	if s, ok := v.(string); ok {
		return []string{s}
	}
	list := List(v)
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, Text(item))
	}
	return out
}
