package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixology/platform/handler"
)

func render(t *testing.T, resp handler.Response) (*httptest.ResponseRecorder, handler.JSONResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var got handler.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return w, got
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("data", func(t *testing.T) {
		t.Parallel()
		w, got := render(t, handler.JSON(map[string]string{"status": "processed"}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"status": "processed"}, got.Data)
		assert.Nil(t, got.Error)
	})

	t.Run("status and meta", func(t *testing.T) {
		t.Parallel()
		w, got := render(t, handler.JSON("ok",
			handler.WithJSONStatus(http.StatusAccepted),
			handler.WithJSONMeta(map[string]any{"version": "1"}),
		))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "ok", got.Data)
		assert.Equal(t, map[string]any{"version": "1"}, got.Meta)
	})

	t.Run("error value", func(t *testing.T) {
		t.Parallel()
		w, got := render(t, handler.JSON(handler.ErrNotFound))
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, got.Error)
		assert.Equal(t, "not_found", got.Error.Code)
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	t.Run("http error wrapped with cause", func(t *testing.T) {
		t.Parallel()
		err := errors.Join(handler.ErrBadRequest, errors.New("signature mismatch"))
		w, got := render(t, handler.JSONError(err))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, got.Error)
		assert.Equal(t, "bad_request", got.Error.Code)
		assert.Equal(t, "Bad Request", got.Error.Message)
	})

	t.Run("internal errors are not exposed", func(t *testing.T) {
		t.Parallel()
		w, got := render(t, handler.JSONError(errors.New("pq: password authentication failed")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, got.Error)
		assert.Equal(t, "internal_server_error", got.Error.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("custom error and status override", func(t *testing.T) {
		t.Parallel()
		w, got := render(t, handler.JSONError(
			handler.NewHTTPError(http.StatusBadRequest, "invalid_signature"),
			handler.WithJSONStatus(http.StatusUnauthorized),
		))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid_signature", got.Error.Code)
	})
}
