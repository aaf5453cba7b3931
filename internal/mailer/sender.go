package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

var ErrNotConfigured = errors.New("email sender is not configured")

type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
	Tags    map[string]string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender never fails; a missing key or address surfaces as ErrNotConfigured on Send.
func NewResendSender(apiKey, fromEmail, fromName string) *ResendSender {
	s := &ResendSender{from: formatFrom(fromEmail, fromName)}
	if strings.TrimSpace(apiKey) != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

func (s *ResendSender) WithBaseURL(raw string) (*ResendSender, error) {
	if s.client == nil {
		return s, nil
	}
	u, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse resend base url: %w", err)
	}
	s.client.BaseURL = u
	return s, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if s.client == nil || s.from == "" {
		return ErrNotConfigured
	}
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}
	for name, value := range msg.Tags {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: value})
	}
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// LogSender only logs outgoing mail.
type LogSender struct {
	log *zerolog.Logger
}

func NewLogSender(log *zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("email not delivered, log sender in use")
	return nil
}

func formatFrom(email, name string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	if name = strings.TrimSpace(name); name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
