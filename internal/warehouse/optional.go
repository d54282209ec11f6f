package warehouse

import (
	json "github.com/goccy/go-json"
)

// Opt is an update field that distinguishes "not provided" from an explicit
// value, including an explicit null (via a pointer-typed T). The zero value
// means "leave unchanged". JSON decoding marks the field provided only when
// the key is present in the payload, mirroring the partial-update contract.
type Opt[T any] struct {
	value    T
	provided bool
}

// Set returns a provided Opt carrying v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{value: v, provided: true}
}

// Provided reports whether the caller supplied this field at all.
func (o Opt[T]) Provided() bool { return o.provided }

// Value returns the supplied value; meaningful only when Provided.
func (o Opt[T]) Value() T { return o.value }

// Or returns the supplied value when provided, otherwise existing.
func (o Opt[T]) Or(existing T) T {
	if o.provided {
		return o.value
	}
	return existing
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.provided = true
	return nil
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.provided {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
