package query

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state request field: unset (key omitted), null (explicitly
// cleared) or set. Tag it with `omitzero` so the unset state drops the key.
type Field[T any] struct {
	val  T
	set  bool
	null bool
}

// Some returns a field carrying v.
func Some[T any](v T) Field[T] {
	return Field[T]{val: v, set: true}
}

// Null returns a field that serializes as JSON null.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// IsZero reports whether the field is unset. encoding/json calls it for omitzero.
func (f Field[T]) IsZero() bool { return !f.set }

func (f Field[T]) IsSet() bool  { return f.set }
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Get returns the value and whether a non-null value is present.
func (f Field[T]) Get() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.val, true
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.val)
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}
