package services

import (
	"testing"

	"asha_connect_go/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildSubmissionAlert(t *testing.T) {
	t.Run("Renders fields in both bodies", func(t *testing.T) {
		cfg := &config.Config{
			AlertEmails: []string{"team@ashaconnect.org"},
			AppURL:      "https://ashaconnect.org",
		}
		email, err := BuildSubmissionAlert(cfg, "donation", []AlertField{
			{Label: "Name", Value: "Ravi Kumar"},
			{Label: "Amount", Value: "500.00"},
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"team@ashaconnect.org"}, email.To)
		assert.Equal(t, "New donation received", email.Subject)
		assert.Contains(t, email.HTMLBody, "Ravi Kumar")
		assert.Contains(t, email.HTMLBody, "https://ashaconnect.org/admin")
		assert.Contains(t, email.TextBody, "Amount: 500.00")
	})

	t.Run("Escapes HTML in submitted values", func(t *testing.T) {
		cfg := &config.Config{AlertEmails: []string{"team@ashaconnect.org"}}
		email, err := BuildSubmissionAlert(cfg, "contact message", []AlertField{
			{Label: "Message", Value: "<script>alert(1)</script>"},
		})
		assert.NoError(t, err)
		assert.NotContains(t, email.HTMLBody, "<script>")
	})

	t.Run("No recipients is an error", func(t *testing.T) {
		_, err := BuildSubmissionAlert(&config.Config{}, "donation", nil)
		assert.Error(t, err)
	})
}

func TestSendEmailTestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	err := SendEmail(cfg, &Email{
		To:       []string{"team@ashaconnect.org"},
		Subject:  "Test",
		HTMLBody: "<p>Hi</p>",
		TextBody: "Hi",
	})
	assert.NoError(t, err)
}
