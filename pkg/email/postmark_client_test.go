package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixology/platform/pkg/email"
)

func validConfig() email.Config {
	return email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "billing@fixology.test",
		SupportEmail:         "support@fixology.test",
	}
}

func TestNewPostmarkClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *email.Config)
		errMsg string
	}{
		{"empty server token", func(c *email.Config) { c.PostmarkServerToken = "" }, "PostmarkServerToken is required"},
		{"empty account token", func(c *email.Config) { c.PostmarkAccountToken = "" }, "PostmarkAccountToken is required"},
		{"invalid sender", func(c *email.Config) { c.SenderEmail = "billing" }, "SenderEmail must be a valid email address"},
		{"invalid support", func(c *email.Config) { c.SupportEmail = "" }, "SupportEmail must be a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)
			client, err := email.NewPostmarkClient(cfg)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPostmarkClient_SendEmail(t *testing.T) {
	t.Parallel()

	newServer := func(t *testing.T, errorCode int, got *map[string]any) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "server-token", r.Header.Get("X-Postmark-Server-Token"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"ErrorCode": errorCode, "Message": "msg", "MessageID": "m-1"})
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	params := email.SendEmailParams{SendTo: "owner@shop.test", Subject: "Receipt", BodyHTML: "<p>paid</p>", Tag: "billing-receipt"}

	t.Run("delivers with reply-to support", func(t *testing.T) {
		t.Parallel()
		var got map[string]any
		srv := newServer(t, 0, &got)
		client, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkBaseURL(srv.URL))
		require.NoError(t, err)

		require.NoError(t, client.SendEmail(context.Background(), params))
		assert.Equal(t, "billing@fixology.test", got["From"])
		assert.Equal(t, "support@fixology.test", got["ReplyTo"])
		assert.Equal(t, "owner@shop.test", got["To"])
		assert.Equal(t, "billing-receipt", got["Tag"])
	})

	t.Run("api error code", func(t *testing.T) {
		t.Parallel()
		var got map[string]any
		srv := newServer(t, 406, &got)
		client, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkBaseURL(srv.URL))
		require.NoError(t, err)

		err = client.SendEmail(context.Background(), params)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "406")
	})

	t.Run("validation happens before any request", func(t *testing.T) {
		t.Parallel()
		client, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkBaseURL("http://127.0.0.1:1"))
		require.NoError(t, err)
		err = client.SendEmail(context.Background(), email.SendEmailParams{SendTo: "nope"})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
	})
}
