package patch

import "encoding/json"

// Field distinguishes the three states a key can be in on a patch payload:
// absent (leave the column alone), null (clear it), or a value (set it).
// encoding/json only calls UnmarshalJSON for keys that are present, which is
// what makes the absent state observable.
type Field[T any] struct {
	present bool
	value   *T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true

	if string(data) == "null" {
		f.value = nil
		return nil
	}

	var v T

	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	f.value = &v
	return nil
}

// Set returns a Field holding a concrete value.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: &v}
}

// Null returns a present-and-null Field.
func Null[T any]() Field[T] {
	return Field[T]{present: true}
}

func (f Field[T]) Present() bool {
	return f.present
}

func (f Field[T]) IsNull() bool {
	return f.present && f.value == nil
}

// Value returns the concrete value and whether one was supplied.
func (f Field[T]) Value() (T, bool) {
	if f.value == nil {
		var zero T
		return zero, false
	}

	return *f.value, true
}

// Ptr returns the value as a pointer, nil for absent or null fields.
func (f Field[T]) Ptr() *T {
	return f.value
}
