package binder

import (
	"net/http"
)

// Path creates a path parameter binder using the router's extractor, for
// example chi.URLParam. Fields are bound from `path:"name"` tags:
//
//	type ShopRequest struct {
//		ID uuid.UUID `path:"id,required"`
//	}
//
//	r.Get("/shops/{id}/billing", handler.Wrap(h,
//		handler.WithBinders[handler.Context, ShopRequest](binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "path", func(name string) []string {
			if extractor == nil {
				return nil
			}
			return []string{extractor(r, name)}
		}, ErrFailedToParsePath)
	}
}
