package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"regdesk/internal/dto"
	"regdesk/internal/export"
	"regdesk/internal/mailer"
	"regdesk/internal/model"
	"regdesk/internal/repo"
	"regdesk/pkg/validator"
)

const msgRegistrationNotFound = "Registration not found"

// Notifier sends one templated email and reports the outcome without failing the caller.
type Notifier interface {
	Send(ctx context.Context, kind model.EmailKind, reg *model.CampaignRegistration, c *model.Campaign) mailer.Result
}

// Publisher queues a reminder job. A nil Publisher means reminders are sent inline.
type Publisher interface {
	Publish(ctx context.Context, message []byte) error
}

type Registrations struct {
	repo     repo.Repository
	notifier Notifier
	jobs     Publisher
	log      *zerolog.Logger
}

func NewRegistrations(repo repo.Repository, notifier Notifier, jobs Publisher, log *zerolog.Logger) *Registrations {
	return &Registrations{repo: repo, notifier: notifier, jobs: jobs, log: log}
}

// A failed confirmation email never fails the submission.
func (s *Registrations) Submit(ctx context.Context, slug string, req dto.RegistrationRequest) (*dto.SubmitResponse, Result) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(ctx, req); err != nil {
		return nil, invalid(err)
	}

	campaign, err := s.repo.GetCampaignBySlug(ctx, NormalizeSlug(slug))
	if errors.Is(err, repo.ErrCampaignNotFound) {
		return nil, fail(dto.CampaignNotFound, msgCampaignNotFound)
	}
	if err != nil {
		s.log.Error().Err(err).Str("slug", slug).Msg("failed to load campaign for registration")
		return nil, internal("Failed to submit registration. Please try again.")
	}
	if !campaign.IsAcceptingRegistrations() {
		return nil, fail(dto.RegistrationClosed, "Registration is currently closed for this campaign")
	}

	nr := &model.NewRegistration{
		CampaignID:         campaign.ID,
		FirstName:          strings.TrimSpace(req.FirstName),
		MiddleName:         strings.TrimSpace(req.MiddleName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              req.Email,
		Phone:              strings.TrimSpace(req.Phone),
		AltPhone:           strings.TrimSpace(req.AltPhone),
		Gender:             req.Gender,
		DOB:                req.DOB,
		MaritalStatus:      req.MaritalStatus,
		City:               req.City,
		Address:            req.Address,
		Institute:          req.Institute,
		ProfessionalStatus: req.ProfessionalStatus,
		Workplace:          req.Workplace,
		Attended:           model.ParseAttended(req.Attended),
		Expectations:       req.Expectations,
		HearAbout:          req.HearAbout,
	}

	id, err := s.repo.CreateRegistration(ctx, nr)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateRegistration):
			return nil, fail(dto.RegistrationDuplicate, "This email has already been registered for this campaign.")
		case errors.Is(err, repo.ErrCampaignNotFound):
			return nil, fail(dto.CampaignNotFound, msgCampaignNotFound)
		}
		s.log.Error().Err(err).Int64("campaign_id", campaign.ID).Msg("failed to insert registration")
		return nil, internal("Failed to submit registration. Please try again.")
	}

	s.log.Info().Int64("campaign_id", campaign.ID).Int64("registration_id", id).Msg("registration submitted")

	reg := &model.CampaignRegistration{
		ID:            id,
		CampaignID:    campaign.ID,
		FirstName:     nr.FirstName,
		MiddleName:    nr.MiddleName,
		LastName:      nr.LastName,
		Email:         nr.Email,
		Status:        model.ApprovalPending,
		PaymentStatus: model.PaymentUnpaid,
		CreatedAt:     time.Now(),
	}
	sent := s.notifier.Send(ctx, model.EmailConfirmation, reg, campaign)

	return &dto.SubmitResponse{RegistrationID: id, EmailSent: sent.Success}, ok("Registration submitted successfully!")
}

func (s *Registrations) List(ctx context.Context, campaignID int64, f model.RegistrationFilter) ([]model.CampaignRegistration, Result) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fail(dto.FieldIncorrect, "Unknown approval status")
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return nil, fail(dto.FieldIncorrect, "Unknown payment status")
	}
	if _, err := s.repo.GetCampaignByID(ctx, campaignID); err != nil {
		return nil, s.campaignFailure(err, campaignID, "Failed to fetch registrations")
	}
	regs, err := s.repo.ListRegistrations(ctx, campaignID, f)
	if err != nil {
		s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to list registrations")
		return nil, internal("Failed to fetch registrations")
	}
	return regs, ok("")
}

func (s *Registrations) ExportCSV(ctx context.Context, campaignID int64, f model.RegistrationFilter) ([]byte, string, Result) {
	campaign, err := s.repo.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, "", s.campaignFailure(err, campaignID, "Failed to export registrations")
	}
	regs, res := s.List(ctx, campaignID, f)
	if !res.Success {
		return nil, "", res
	}
	var buf bytes.Buffer
	if err := export.WriteRegistrations(&buf, regs); err != nil {
		s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to write csv")
		return nil, "", internal("Failed to export registrations")
	}
	return buf.Bytes(), export.Filename(campaign.Slug, time.Now()), ok("")
}

func (s *Registrations) Stats(ctx context.Context, campaignID int64) (*model.RegistrationStats, Result) {
	stats, err := s.repo.RegistrationStats(ctx, campaignID)
	if err != nil {
		s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to compute stats")
		return nil, internal("Failed to fetch campaign stats")
	}
	return stats, ok("")
}

func (s *Registrations) Approve(ctx context.Context, id int64, notify bool) Result {
	resp, res := s.BulkApprove(ctx, dto.BulkApproveRequest{IDs: []int64{id}, Notify: notify})
	if !res.Success {
		return res
	}
	if resp.Updated == 0 {
		return fail(dto.RegistrationNotFound, msgRegistrationNotFound)
	}
	return ok("Registration approved")
}

func (s *Registrations) BulkApprove(ctx context.Context, req dto.BulkApproveRequest) (*dto.BulkResponse, Result) {
	if err := validator.Validate(ctx, req); err != nil {
		return nil, invalid(err)
	}
	n, err := s.repo.SetApprovalStatus(ctx, req.IDs, model.ApprovalApproved)
	if err != nil {
		s.log.Error().Err(err).Ints64("registration_ids", req.IDs).Msg("failed to approve registrations")
		return nil, internal("Failed to approve registration")
	}

	resp := &dto.BulkResponse{Updated: n}
	if req.Notify {
		for _, id := range req.IDs {
			if s.sendTo(ctx, id, model.EmailApproval).Success {
				resp.Emailed++
			}
		}
	}
	s.log.Info().Int64("updated", n).Int("emailed", resp.Emailed).Msg("registrations approved")
	return resp, ok("Registrations approved")
}

func (s *Registrations) Reject(ctx context.Context, id int64) Result {
	n, err := s.repo.SetApprovalStatus(ctx, []int64{id}, model.ApprovalRejected)
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to reject registration")
		return internal("Failed to reject registration")
	}
	if n == 0 {
		return fail(dto.RegistrationNotFound, msgRegistrationNotFound)
	}
	return ok("Registration rejected")
}

func (s *Registrations) SetPayment(ctx context.Context, id int64, req dto.PaymentRequest) Result {
	if err := validator.Validate(ctx, req); err != nil {
		return invalid(err)
	}
	err := s.repo.SetPaymentStatus(ctx, id, model.PaymentStatus(req.Status), req.Reference)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		return fail(dto.RegistrationNotFound, msgRegistrationNotFound)
	}
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to update payment status")
		return internal("Failed to update payment status")
	}
	return ok("Payment status updated")
}

// SendEmail is the manual resend path from the admin views.
func (s *Registrations) SendEmail(ctx context.Context, id int64, kind model.EmailKind) Result {
	if !kind.Valid() {
		return fail(dto.FieldIncorrect, "Unknown email type")
	}
	return s.sendTo(ctx, id, kind)
}

func (s *Registrations) sendTo(ctx context.Context, id int64, kind model.EmailKind) Result {
	reg, err := s.repo.GetRegistrationByID(ctx, id)
	if errors.Is(err, repo.ErrRegistrationNotFound) {
		return fail(dto.RegistrationNotFound, msgRegistrationNotFound)
	}
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to load registration")
		return internal("Failed to send email")
	}
	campaign, err := s.repo.GetCampaignByID(ctx, reg.CampaignID)
	if err != nil {
		return s.campaignFailure(err, reg.CampaignID, "Failed to send email")
	}

	sent := s.notifier.Send(ctx, kind, reg, campaign)
	if !sent.Success {
		return fail(dto.EmailNotSent, sent.Message)
	}
	return ok(sent.Message)
}

func (s *Registrations) EmailHistory(ctx context.Context, id int64) ([]model.EmailTracking, Result) {
	history, err := s.repo.ListEmailTracking(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to load email history")
		return nil, internal("Failed to fetch email history")
	}
	return history, ok("")
}

func (s *Registrations) QueueReminders(ctx context.Context, campaignID int64) (*dto.QueuedResponse, Result) {
	campaign, err := s.repo.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, s.campaignFailure(err, campaignID, "Failed to queue reminders")
	}
	unpaid, err := s.repo.ListUnpaidRegistrations(ctx, campaignID)
	if err != nil {
		s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to list unpaid registrations")
		return nil, internal("Failed to queue reminders")
	}

	resp := &dto.QueuedResponse{}
	for i := range unpaid {
		reg := &unpaid[i]
		if s.jobs != nil {
			err := s.enqueueReminder(ctx, reg.ID, campaignID)
			if err == nil {
				resp.Queued++
				continue
			}
			s.log.Warn().Err(err).Int64("registration_id", reg.ID).Msg("reminder not queued, sending inline")
		}
		if s.notifier.Send(ctx, model.EmailReminder, reg, campaign).Success {
			resp.Queued++
		}
	}

	s.log.Info().Int64("campaign_id", campaignID).Int("queued", resp.Queued).Int("unpaid", len(unpaid)).Msg("reminders dispatched")
	return resp, ok("Reminders queued")
}

func (s *Registrations) enqueueReminder(ctx context.Context, regID, campaignID int64) error {
	body, err := json.Marshal(dto.ReminderJob{RegistrationID: regID, CampaignID: campaignID})
	if err != nil {
		return fmt.Errorf("encode reminder job: %w", err)
	}
	if err := s.jobs.Publish(ctx, body); err != nil {
		return fmt.Errorf("publish reminder job: %w", err)
	}
	return nil
}

func (s *Registrations) campaignFailure(err error, campaignID int64, message string) Result {
	if errors.Is(err, repo.ErrCampaignNotFound) {
		return fail(dto.CampaignNotFound, msgCampaignNotFound)
	}
	s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to load campaign")
	return internal(message)
}
