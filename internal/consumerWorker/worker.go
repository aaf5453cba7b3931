package consumerWorker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"regdesk/internal/dto"
	"regdesk/internal/mailer"
	"regdesk/internal/model"
	"regdesk/internal/repo"
)

type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Notifier interface {
	Send(ctx context.Context, kind model.EmailKind, reg *model.CampaignRegistration, c *model.Campaign) mailer.Result
}

// Reader drains reminder jobs and sends each one through the dispatcher.
type Reader struct {
	RMQ      Consumer
	repo     repo.Repository
	notifier Notifier
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewReader(rmq Consumer, repo repo.Repository, notifier Notifier) *Reader {
	return &Reader{
		RMQ:      rmq,
		repo:     repo,
		notifier: notifier,
		done:     make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("Reminder reader started")

	go func() {
		defer close(r.done)

		if err := r.RMQ.Consume(func(body []byte) error { return r.handle(cctx, body) }); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("Reminder reader stopped by context")
	}()
}

// handle never asks for redelivery; errors are only reported to the consumer for logging.
func (r *Reader) handle(ctx context.Context, body []byte) error {
	var job dto.ReminderJob
	if err := json.Unmarshal(body, &job); err != nil {
		zlog.Logger.Error().Err(err).Msgf("Failed to unmarshal reminder job: %s", string(body))
		return fmt.Errorf("decode reminder job: %w", err)
	}

	log := zlog.Logger.With().
		Int64("registration_id", job.RegistrationID).
		Int64("campaign_id", job.CampaignID).
		Logger()

	reg, err := r.repo.GetRegistrationByID(ctx, job.RegistrationID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load registration for reminder")
		return err
	}
	if reg.PaymentStatus != model.PaymentUnpaid {
		log.Info().Str("status", string(reg.PaymentStatus)).Msg("Registration no longer unpaid, skipping reminder")
		return nil
	}

	campaign, err := r.repo.GetCampaignByID(ctx, reg.CampaignID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load campaign for reminder")
		return err
	}

	if res := r.notifier.Send(ctx, model.EmailReminder, reg, campaign); !res.Success {
		return fmt.Errorf("reminder not sent: %s", res.Message)
	}
	return nil
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
