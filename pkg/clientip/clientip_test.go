package clientip_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixology/platform/pkg/clientip"
	"github.com/fixology/platform/pkg/logger"
)

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers []string
		set     map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, nil, "54.187.174.169:443", "54.187.174.169"},
		{"forwarded first valid", nil, map[string]string{"X-Forwarded-For": "garbage, 3.18.12.63, 10.0.0.1"}, "10.0.0.2:1", "3.18.12.63"},
		{"real ip", nil, map[string]string{"X-Real-IP": "2001:db8::1"}, "10.0.0.2:1", "2001:db8::1"},
		{"mapped ipv6 is unmapped", nil, nil, "[::ffff:13.235.14.237]:80", "13.235.14.237"},
		{"untrusted header ignored", []string{}, map[string]string{"X-Forwarded-For": "1.2.3.4"}, "10.0.0.2:1", "10.0.0.2"},
		{"custom header", []string{"CF-Connecting-IP"}, map[string]string{"CF-Connecting-IP": "3.130.192.231"}, "10.0.0.2:1", "3.130.192.231"},
		{"remote without port", []string{}, nil, "192.0.2.7", "192.0.2.7"},
		{"nothing valid", []string{}, nil, "pipe", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.set {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.NewResolver(tt.headers).IP(r))
		})
	}
}

func TestMiddlewareAndExtractor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(clientip.LoggerExtractor()))

	h := clientip.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3.18.12.63", clientip.FromContext(r.Context()))
		log.InfoContext(r.Context(), "webhook received")
	}))
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("X-Forwarded-For", "3.18.12.63")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Contains(t, buf.String(), `"client_ip":"3.18.12.63"`)
	assert.Empty(t, clientip.FromContext(context.Background()))
}
