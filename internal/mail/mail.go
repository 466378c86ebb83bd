// Package mail delivers transactional e-mail through an external relay.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// RelayMailer posts messages as JSON to an HTTP mail relay.
type RelayMailer struct {
	client *resty.Client
	from   string
}

func NewRelayMailer(baseURL, token, from string) *RelayMailer {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &RelayMailer{client: client, from: from}
}

func (m *RelayMailer) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = m.from
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post("/send")
	if err != nil {
		return fmt.Errorf("failed to call mail relay: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode())
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when no
// relay is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	slog.Info("mail not sent (no relay configured)", "to", msg.To, "subject", msg.Subject)
	return nil
}

// New picks the relay when a URL is configured, otherwise the log mailer.
func New(relayURL, token, from string) Mailer {
	if relayURL == "" {
		return LogMailer{}
	}
	return NewRelayMailer(relayURL, token, from)
}

func VerificationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/api/auth/verify-email?token=" + url.QueryEscape(token)
}

func VerificationMessage(to, baseURL, token string) Message {
	link := VerificationLink(baseURL, token)
	return Message{
		To:      to,
		Subject: "Verify your email address",
		HTML: fmt.Sprintf(`<p>Welcome! Please confirm your email address to activate your account.</p>`+
			`<p><a href="%s">Verify email</a></p>`+
			`<p>If you did not create an account you can ignore this message.</p>`, link),
		Text: "Please confirm your email address by visiting: " + link,
	}
}
