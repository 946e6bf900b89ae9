package binder

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
)

// DefaultMaxBodySize is the default limit for raw request bodies (1 MB).
const DefaultMaxBodySize = 1 << 20

// RawBody reads the unparsed request body into the []byte field tagged
// `body:"raw"`. Signature checks need the exact bytes the sender signed, so
// the body is never decoded or re-encoded here. Bodies over maxBytes fail with
// ErrBodyTooLarge; maxBytes <= 0 uses DefaultMaxBodySize.
func RawBody(maxBytes int64) func(r *http.Request, v any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(r *http.Request, v any) error {
		rv, err := structValue(v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToReadBody, err)
		}
		field, ok := rawBodyField(rv)
		if !ok {
			return nil
		}
		if r.Body == nil {
			field.SetBytes(nil)
			return nil
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToReadBody, err)
		}
		if int64(len(body)) > maxBytes {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, maxBytes)
		}
		field.SetBytes(body)
		return nil
	}
}

var bytesType = reflect.TypeFor[[]byte]()

func rawBodyField(rv reflect.Value) (reflect.Value, bool) {
	rt := rv.Type()
	for i := range rv.NumField() {
		if rt.Field(i).Tag.Get("body") == "raw" && rt.Field(i).Type == bytesType && rv.Field(i).CanSet() {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}
