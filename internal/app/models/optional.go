package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OptionalID is a course reference in a request body that tells apart three states:
// absent (Set=false), explicitly cleared (Set=true, Valid=false) and set to a value.
// It accepts a JSON number, a numeric string, null or an empty string.
type OptionalID struct {
	Set   bool
	Valid bool
	Value int64
}

// SomeID returns an OptionalID holding id.
func SomeID(id int64) OptionalID {
	return OptionalID{Set: true, Valid: true, Value: id}
}

// ClearedID returns an OptionalID that explicitly clears the reference.
func ClearedID() OptionalID {
	return OptionalID{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is also called for JSON null.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Valid = false
	o.Value = 0

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid course id %q", raw)
	}
	o.Valid = true
	o.Value = id
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(o.Value, 10)), nil
}

// Ptr returns the value as a pointer, nil when absent or cleared.
func (o OptionalID) Ptr() *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// Positive reports whether a usable course id is present. Zero means "no course" on create.
func (o OptionalID) Positive() bool {
	return o.Valid && o.Value > 0
}

// Nullable is a nullable column in a partial update. Like OptionalID it tells apart
// absent (Set=false), null (Set=true, Valid=false) and a value.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// NullableOf returns a Nullable holding v.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

// Null returns a Nullable that sets the column to NULL.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is also called for JSON null.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	var zero T
	n.Set, n.Valid, n.Value = true, false, zero

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when absent or null.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// column returns what to store: the value, or nil for NULL.
func (n Nullable[T]) column() interface{} {
	if !n.Valid {
		return nil
	}
	return n.Value
}
