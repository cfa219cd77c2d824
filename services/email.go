package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"asha_connect_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

const alertHTMLTemplate = `<h2>New {{.Kind}} on Asha Connect</h2>
<p>A new {{.Kind}} was just submitted:</p>
<table cellpadding="4">
{{range .Fields}}<tr><td><strong>{{.Label}}</strong></td><td>{{.Value}}</td></tr>
{{end}}</table>
<p><a href="{{.DashboardURL}}">Open the admin dashboard</a></p>`

// AlertField is one labelled value rendered in a submission alert email
type AlertField struct {
	Label string
	Value string
}

// BuildSubmissionAlert builds the admin alert email for a new submission
func BuildSubmissionAlert(cfg *config.Config, kind string, fields []AlertField) (*Email, error) {
	if len(cfg.AlertEmails) == 0 {
		return nil, fmt.Errorf("no alert recipients configured")
	}

	tmpl, err := template.New("alert").Parse(alertHTMLTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert template: %w", err)
	}

	data := struct {
		Kind         string
		Fields       []AlertField
		DashboardURL string
	}{
		Kind:         kind,
		Fields:       fields,
		DashboardURL: cfg.AppURL + "/admin",
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute alert template: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "New %s on Asha Connect\n\n", kind)
	for _, f := range fields {
		fmt.Fprintf(&text, "%s: %s\n", f.Label, f.Value)
	}

	return &Email{
		To:       cfg.AlertEmails,
		Subject:  fmt.Sprintf("New %s received", kind),
		HTMLBody: buf.String(),
		TextBody: text.String(),
	}, nil
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Set body (prefer HTML if available)
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in a goroutine so handlers never block on
// the Resend API. Failures are logged only.
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("[WARNING] Failed to send email to %v: %v", emailCopy.To, err)
		}
	}()
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}
