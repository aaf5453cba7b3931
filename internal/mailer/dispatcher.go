package mailer

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"regdesk/internal/model"
)

// Tracker records that an email kind went out for a registration.
type Tracker interface {
	TrackEmail(ctx context.Context, registrationID int64, kind model.EmailKind) error
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Dispatcher renders and sends one email per call. It never retries and never returns an error:
// the caller only sees Result. A failed tracking write does not turn a sent email into a failure.
type Dispatcher struct {
	sender   Sender
	tracker  Tracker
	log      *zerolog.Logger
	currency string
}

func NewDispatcher(sender Sender, tracker Tracker, log *zerolog.Logger, currency string) *Dispatcher {
	if currency == "" {
		currency = DefaultCurrencySymbol
	}
	return &Dispatcher{sender: sender, tracker: tracker, log: log, currency: currency}
}

func (d *Dispatcher) Send(ctx context.Context, kind model.EmailKind, reg *model.CampaignRegistration, c *model.Campaign) Result {
	log := d.log.With().
		Str("email_kind", string(kind)).
		Int64("registration_id", reg.ID).
		Int64("campaign_id", c.ID).
		Logger()

	subject, html, err := Render(kind, NewTemplateData(reg, c, d.currency))
	if err != nil {
		log.Error().Err(err).Msg("failed to render email")
		return Result{Success: false, Message: "Failed to send email"}
	}

	msg := Message{
		To:      []string{reg.Email},
		Subject: subject,
		HTML:    html,
		ReplyTo: c.ContactEmail,
		Tags: map[string]string{
			"kind":     string(kind),
			"campaign": strconv.FormatInt(c.ID, 10),
		},
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Str("email", reg.Email).Msg("failed to send email")
		return Result{Success: false, Message: "Failed to send email"}
	}

	if d.tracker != nil {
		if err := d.tracker.TrackEmail(ctx, reg.ID, kind); err != nil {
			log.Warn().Err(err).Msg("email sent but not tracked")
		}
	}

	log.Info().Str("email", reg.Email).Msg("email sent")
	return Result{Success: true, Message: "Email sent successfully"}
}
