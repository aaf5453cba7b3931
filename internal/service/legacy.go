package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"regdesk/internal/dto"
	"regdesk/internal/export"
	"regdesk/internal/legacy"
	"regdesk/internal/model"
	"regdesk/pkg/validator"
)

type LegacyStore interface {
	SubmitRegistration(ctx context.Context, reg *legacy.Registration) (int64, error)
	ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]legacy.Registration, error)
	ApproveRegistration(ctx context.Context, id int64) error
	GetSettings(ctx context.Context) (*legacy.Settings, error)
	UpdateSettings(ctx context.Context, open bool, reason string) (*legacy.Settings, error)
}

// Legacy serves the single-event form that predates campaigns.
type Legacy struct {
	store LegacyStore
	log   *zerolog.Logger
}

func NewLegacy(store LegacyStore, log *zerolog.Logger) *Legacy {
	return &Legacy{store: store, log: log}
}

func (s *Legacy) Submit(ctx context.Context, req dto.RegistrationRequest) (*dto.SubmitResponse, Result) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read registration settings")
		return nil, internal("Failed to submit registration. Please try again.")
	}
	if !settings.IsOpen {
		msg := "Registration is currently closed"
		if settings.CloseReason != "" {
			msg += ": " + settings.CloseReason
		}
		return nil, fail(dto.RegistrationClosed, msg)
	}

	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(ctx, req); err != nil {
		return nil, invalid(err)
	}
	dob, _ := time.Parse(validator.DateLayout, req.DOB)

	reg := &legacy.Registration{
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              req.Email,
		Phone:              strings.TrimSpace(req.Phone),
		AltPhone:           strings.TrimSpace(req.AltPhone),
		Gender:             req.Gender,
		DOB:                dob,
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
	id, err := s.store.SubmitRegistration(ctx, reg)
	if errors.Is(err, legacy.ErrDuplicateEmail) {
		return nil, fail(dto.RegistrationDuplicate, "This email address has already been registered. Please use a different email.")
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to insert legacy registration")
		return nil, internal("Failed to submit registration. Please try again.")
	}
	return &dto.SubmitResponse{RegistrationID: id}, ok("Registration submitted successfully!")
}

func (s *Legacy) List(ctx context.Context, f model.RegistrationFilter) ([]legacy.Registration, Result) {
	regs, err := s.store.ListRegistrations(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list legacy registrations")
		return nil, internal("Failed to fetch registrations")
	}
	return regs, ok("")
}

func (s *Legacy) ExportCSV(ctx context.Context, f model.RegistrationFilter) ([]byte, string, Result) {
	regs, res := s.List(ctx, f)
	if !res.Success {
		return nil, "", res
	}
	var buf bytes.Buffer
	if err := export.WriteLegacyRegistrations(&buf, regs); err != nil {
		s.log.Error().Err(err).Msg("failed to write legacy csv")
		return nil, "", internal("Failed to export registrations")
	}
	return buf.Bytes(), export.Filename("legacy", time.Now()), ok("")
}

func (s *Legacy) Approve(ctx context.Context, id int64) Result {
	err := s.store.ApproveRegistration(ctx, id)
	if errors.Is(err, legacy.ErrRegistrationNotFound) {
		return fail(dto.RegistrationNotFound, msgRegistrationNotFound)
	}
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to approve legacy registration")
		return internal("Failed to approve registration")
	}
	return ok("Registration approved")
}

func (s *Legacy) Settings(ctx context.Context) (*legacy.Settings, Result) {
	st, err := s.store.GetSettings(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read registration settings")
		return nil, internal("Failed to fetch settings")
	}
	return st, ok("")
}

func (s *Legacy) UpdateSettings(ctx context.Context, req dto.SettingsRequest) (*legacy.Settings, Result) {
	if err := validator.Validate(ctx, req); err != nil {
		return nil, invalid(err)
	}
	reason := req.CloseReason
	if *req.IsOpen {
		reason = ""
	}
	st, err := s.store.UpdateSettings(ctx, *req.IsOpen, reason)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to update registration settings")
		return nil, internal("Failed to update settings")
	}
	s.log.Info().Bool("is_open", st.IsOpen).Msg("legacy registration settings updated")
	return st, ok("Settings updated")
}
