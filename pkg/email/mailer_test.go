package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixology/platform/pkg/email"
)

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{SendTo: "owner@shop.test", Subject: "Receipt", BodyHTML: "<p>ok</p>"}

	tests := []struct {
		name   string
		mutate func(p *email.SendEmailParams)
		errMsg string
	}{
		{"valid", func(*email.SendEmailParams) {}, ""},
		{"valid with tag", func(p *email.SendEmailParams) { p.Tag = "receipt" }, ""},
		{"plus addressing", func(p *email.SendEmailParams) { p.SendTo = "test.user+tag@sub.example.com" }, ""},
		{"empty SendTo", func(p *email.SendEmailParams) { p.SendTo = "" }, "SendTo is required"},
		{"blank SendTo", func(p *email.SendEmailParams) { p.SendTo = "   " }, "SendTo is required"},
		{"invalid SendTo", func(p *email.SendEmailParams) { p.SendTo = "invalid-email" }, "SendTo must be a valid email address"},
		{"missing domain", func(p *email.SendEmailParams) { p.SendTo = "user@" }, "SendTo must be a valid email address"},
		{"missing local part", func(p *email.SendEmailParams) { p.SendTo = "@example.com" }, "SendTo must be a valid email address"},
		{"empty Subject", func(p *email.SendEmailParams) { p.Subject = " " }, "Subject is required"},
		{"empty BodyHTML", func(p *email.SendEmailParams) { p.BodyHTML = "" }, "BodyHTML is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("writes html and metadata", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "emails")
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "owner@shop.test",
			Subject:  "Payment failed",
			BodyHTML: "<p>dunning</p>",
			Tag:      "billing-dunning",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlFile, jsonFile string
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".html":
				htmlFile = e.Name()
			case ".json":
				jsonFile = e.Name()
			}
		}
		assert.True(t, strings.HasSuffix(htmlFile, "billing-dunning.html"))

		body, err := os.ReadFile(filepath.Join(dir, htmlFile))
		require.NoError(t, err)
		assert.Equal(t, "<p>dunning</p>", string(body))

		raw, err := os.ReadFile(filepath.Join(dir, jsonFile))
		require.NoError(t, err)
		var meta map[string]string
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, "owner@shop.test", meta["send_to"])
		assert.Equal(t, "Payment failed", meta["subject"])
		assert.Equal(t, "billing-dunning", meta["tag"])
	})

	t.Run("subject is used without tag", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		err := email.NewDevSender(dir).SendEmail(context.Background(), email.SendEmailParams{
			SendTo: "owner@shop.test", Subject: "Your Receipt!", BodyHTML: "<p>x</p>",
		})
		require.NoError(t, err)
		matches, _ := filepath.Glob(filepath.Join(dir, "*your_receipt.html"))
		assert.Len(t, matches, 1)
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		err := email.NewDevSender(t.TempDir()).SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := email.NewDevSender(t.TempDir()).SendEmail(ctx, email.SendEmailParams{
			SendTo: "owner@shop.test", Subject: "s", BodyHTML: "b",
		})
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	dev, err := email.NewSender(email.Config{SenderEmail: "a@b.test", SupportEmail: "c@d.test", DevDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &email.DevSender{}, dev)

	pm, err := email.NewSender(email.Config{
		PostmarkServerToken: "s", PostmarkAccountToken: "a",
		SenderEmail: "billing@fixology.test", SupportEmail: "support@fixology.test",
	})
	require.NoError(t, err)
	_, isDev := pm.(*email.DevSender)
	assert.False(t, isDev)
}
