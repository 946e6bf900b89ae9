package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixology/platform/handler"
	"github.com/fixology/platform/pkg/binder"
)

type echoRequest struct {
	Signature string `header:"Stripe-Signature,required"`
	Payload   []byte `body:"raw"`
}

func echo(_ handler.Context, req echoRequest) handler.Response {
	return handler.JSON(map[string]any{"signature": req.Signature, "size": len(req.Payload)})
}

func TestWrap_Binders(t *testing.T) {
	t.Parallel()
	h := handler.Wrap(handler.HandlerFunc[handler.Context, echoRequest](echo),
		handler.WithBinders[handler.Context, echoRequest](binder.Header(), binder.RawBody(16)),
	)

	t.Run("bound", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
		r.Header.Set("Stripe-Signature", "t=1,v1=x")
		w := httptest.NewRecorder()
		h(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"signature":"t=1,v1=x","size":5}}`, w.Body.String())
	})

	t.Run("binding error stops the handler", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request\n", w.Body.String())
	})

	t.Run("oversized body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 17)))
		r.Header.Set("Stripe-Signature", "t=1,v1=x")
		w := httptest.NewRecorder()
		h(w, r)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestWrap_ErrorHandlerAndDecorators(t *testing.T) {
	t.Parallel()
	var order []string
	trace := func(name string) handler.Decorator[handler.Context, struct{}] {
		return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
			return func(ctx handler.Context, req struct{}) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	var handled error
	h := handler.Wrap(
		func(handler.Context, struct{}) handler.Response { return nil },
		handler.WithDecorators(trace("outer"), trace("inner")),
		handler.WithErrorHandler[handler.Context, struct{}](func(ctx handler.Context, err error) {
			handled = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}),
	)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.True(t, errors.Is(handled, handler.ErrNilResponse))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestWrap_DefaultErrorHandlerUsesHTTPError(t *testing.T) {
	t.Parallel()
	h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.JSONError(handler.ErrNotFound)
	})
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestError_PassesToErrorHandler(t *testing.T) {
	t.Parallel()
	cause := errors.New("stripe down")
	var handled error
	h := handler.Wrap(
		func(handler.Context, struct{}) handler.Response {
			return handler.Error(errors.Join(handler.ErrBadGateway, cause))
		},
		handler.WithErrorHandler[handler.Context, struct{}](func(ctx handler.Context, err error) {
			handled = err
			ctx.ResponseWriter().WriteHeader(http.StatusBadGateway)
		}),
	)
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, handled, cause)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, w.Body.String())
}
