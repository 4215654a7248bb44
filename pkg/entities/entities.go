// Package entities holds the value types returned by a Mastodon-compatible
// service. Every type here is produced only by decoding a response body and
// is never mutated afterwards.
//
// Fields the service always emits carry a `validate:"required"` tag. Decoding
// a body that lacks them is treated as "not this entity" by the client, which
// then tries the body as an API error envelope instead.
package entities

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ID is an entity identifier. Older servers emit ids as JSON numbers and
// newer ones as strings; both decode into the same value.
type ID string

// UnmarshalJSON accepts either a JSON string or an unsigned integer.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n uint64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or unsigned integer: %w", err)
	}
	*id = ID(strconv.FormatUint(n, 10))
	return nil
}

// Uint64 returns the id as a number, for use with endpoints that take a
// numeric path parameter.
func (id ID) Uint64() (uint64, error) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q is not numeric: %w", string(id), err)
	}
	return n, nil
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// Validate checks the required fields of a decoded entity. v may be a struct,
// a pointer to one, or a slice of either; slices are checked element-wise.
func Validate(v any) error {
	return validateValue(reflect.ValueOf(v))
}

func validateValue(rv reflect.Value) error {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		if rv.NumField() == 0 {
			return nil
		}
		return validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateValue(rv.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}
