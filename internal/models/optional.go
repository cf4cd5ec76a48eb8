package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that distinguishes an omitted key from an explicit null.
//
// Set is true when the key was present in the payload. Valid is true when it was present and not null.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a present, non-null [Optional].
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns a present, null [Optional].
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key exists, which is what marks the field as Set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns a pointer to the value, or nil when the field is null or absent.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
