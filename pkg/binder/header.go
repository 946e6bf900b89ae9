package binder

import "net/http"

// Header binds request headers into fields tagged `header:"Name"`.
// Header names are case-insensitive.
func Header() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "header", func(name string) []string {
			return r.Header.Values(name)
		}, ErrFailedToParseHeader)
	}
}
