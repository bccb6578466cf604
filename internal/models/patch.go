package models

// Patch is a tri-state edit of an optional field: untouched, cleared, or
// set to a value.
type Patch[T any] struct {
	Present bool
	Value   *T
}

// Keep leaves the field as it is.
func Keep[T any]() Patch[T] { return Patch[T]{} }

// Clear unsets the field.
func Clear[T any]() Patch[T] { return Patch[T]{Present: true} }

// SetTo sets the field to v.
func SetTo[T any](v T) Patch[T] { return Patch[T]{Present: true, Value: &v} }

// Apply writes the patch into dst when present.
func (p Patch[T]) Apply(dst **T) {
	if !p.Present {
		return
	}
	if p.Value == nil {
		*dst = nil
		return
	}
	v := *p.Value
	*dst = &v
}
