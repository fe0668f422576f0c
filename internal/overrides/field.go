package overrides

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldNull
	fieldValue
)

// Field is one attribute of an override. It tells apart three cases that a
// plain pointer can't: not mentioned at all (fall back to the calendar),
// explicitly null (cleared by the operator), and pinned to a value.
//
// In JSON an absent key decodes to unset and a literal null to null.
// Tag struct fields with omitzero so unset fields are left out on encode.
type Field[T any] struct {
	state fieldState
	value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{state: fieldValue, value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{state: fieldNull}
}

func (f Field[T]) IsZero() bool {
	return f.state == fieldUnset
}

func (f Field[T]) IsSet() bool {
	return f.state != fieldUnset
}

func (f Field[T]) IsNull() bool {
	return f.state == fieldNull
}

func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldValue
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != fieldValue {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state = fieldNull
		f.value = zero
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.state = fieldValue
	f.value = v
	return nil
}
