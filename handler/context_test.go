package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixology/platform/handler"
)

type ctxKey struct{}

func TestNewContext(t *testing.T) {
	t.Parallel()
	parent, cancel := context.WithTimeout(context.WithValue(context.Background(), ctxKey{}, "shop"), time.Minute)
	defer cancel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", nil).WithContext(parent)
	ctx := handler.NewContext(w, r)

	assert.Same(t, r, ctx.Request())
	assert.Equal(t, w, ctx.ResponseWriter())
	assert.Equal(t, "shop", ctx.Value(ctxKey{}))
	_, ok := ctx.Deadline()
	assert.True(t, ok)
	require.NoError(t, ctx.Err())

	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

type shopContext struct {
	handler.Context
	shop string
}

func TestWrap_ContextFactory(t *testing.T) {
	t.Parallel()
	h := handler.Wrap(
		func(ctx shopContext, _ struct{}) handler.Response { return handler.JSON(ctx.shop) },
		handler.WithContextFactory[shopContext, struct{}](func(w http.ResponseWriter, r *http.Request) shopContext {
			return shopContext{Context: handler.NewContext(w, r), shop: "phone-doctor"}
		}),
	)
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"data":"phone-doctor"}`, w.Body.String())

	assert.Panics(t, func() {
		handler.Wrap(func(shopContext, struct{}) handler.Response { return nil })(
			httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
