package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"regdesk/internal/mailer"
	"regdesk/internal/model"
)

var nopLog = zerolog.Nop()

type sentMail struct {
	Kind  model.EmailKind
	RegID int64
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (n *fakeNotifier) Send(_ context.Context, kind model.EmailKind, reg *model.CampaignRegistration, _ *model.Campaign) mailer.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return mailer.Result{Success: false, Message: "Failed to send email"}
	}
	n.sent = append(n.sent, sentMail{Kind: kind, RegID: reg.ID})
	return mailer.Result{Success: true, Message: "Email sent successfully"}
}

type fakePublisher struct {
	bodies [][]byte
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, body)
	return nil
}

var errBoom = errors.New("boom")
