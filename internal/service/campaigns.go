package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"regdesk/internal/dto"
	"regdesk/internal/model"
	"regdesk/internal/repo"
	"regdesk/pkg/validator"
)

const (
	msgCampaignNotFound = "Campaign not found"
	msgCampaignArchived = "Archived campaigns cannot be changed"
	msgImageNotFound    = "Image not found"
)

type Campaigns struct {
	repo repo.Repository
	log  *zerolog.Logger
}

func NewCampaigns(repo repo.Repository, log *zerolog.Logger) *Campaigns {
	return &Campaigns{repo: repo, log: log}
}

func (s *Campaigns) Create(ctx context.Context, req dto.CreateCampaignRequest) (int64, Result) {
	req.Slug = NormalizeSlug(req.Slug)
	if err := validator.Validate(ctx, req); err != nil {
		return 0, invalid(err)
	}

	start, _ := time.Parse(validator.DateLayout, req.StartDate)
	end, _ := time.Parse(validator.DateLayout, req.EndDate)
	if end.Before(start) {
		return 0, fail(dto.FieldIncorrect, "End date must not be before start date")
	}

	c := &model.Campaign{
		Slug:                 req.Slug,
		Title:                strings.TrimSpace(req.Title),
		Subtitle:             req.Subtitle,
		Description:          req.Description,
		StartDate:            start,
		EndDate:              end,
		Location:             strings.TrimSpace(req.Location),
		VenueDetails:         req.VenueDetails,
		RegistrationFee:      req.RegistrationFee,
		TargetParticipants:   req.TargetParticipants,
		BannerImageURL:       req.BannerImageURL,
		LogoImageURL:         req.LogoImageURL,
		ContactPhone:         req.ContactPhone,
		ContactEmail:         req.ContactEmail,
		PaymentAccountName:   req.PaymentAccountName,
		PaymentAccountNumber: req.PaymentAccountNumber,
		PaymentBank:          req.PaymentBank,
		PaymentInstructions:  req.PaymentInstructions,
		SocialFacebook:       req.SocialFacebook,
		SocialTwitter:        req.SocialTwitter,
		SocialInstagram:      req.SocialInstagram,
		SocialYoutube:        req.SocialYoutube,
	}
	if req.RegistrationDeadline != "" {
		deadline, _ := time.Parse(validator.DateLayout, req.RegistrationDeadline)
		c.RegistrationDeadline = &deadline
	}

	id, err := s.repo.CreateCampaign(ctx, c)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateSlug) {
			return 0, fail(dto.CampaignSlugDuplicate, "A campaign with this slug already exists. Please use a different slug.")
		}
		s.log.Error().Err(err).Str("slug", req.Slug).Msg("failed to create campaign")
		return 0, internal("Failed to create campaign")
	}

	s.log.Info().Int64("campaign_id", id).Str("slug", req.Slug).Msg("campaign created")
	return id, ok("Campaign created successfully")
}

func (s *Campaigns) GetBySlug(ctx context.Context, slug string) (*model.Campaign, Result) {
	c, err := s.repo.GetCampaignBySlug(ctx, NormalizeSlug(slug))
	return s.found(c, err, "failed to get campaign by slug")
}

func (s *Campaigns) GetByID(ctx context.Context, id int64) (*model.Campaign, Result) {
	c, err := s.repo.GetCampaignByID(ctx, id)
	return s.found(c, err, "failed to get campaign")
}

func (s *Campaigns) found(c *model.Campaign, err error, logMsg string) (*model.Campaign, Result) {
	if errors.Is(err, repo.ErrCampaignNotFound) {
		return nil, fail(dto.CampaignNotFound, msgCampaignNotFound)
	}
	if err != nil {
		s.log.Error().Err(err).Msg(logMsg)
		return nil, internal("Failed to fetch campaign")
	}
	return c, ok("")
}

func (s *Campaigns) List(ctx context.Context, includeArchived bool) ([]model.Campaign, Result) {
	campaigns, err := s.repo.ListCampaigns(ctx, includeArchived)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list campaigns")
		return nil, internal("Failed to fetch campaigns")
	}
	return campaigns, ok("")
}

func (s *Campaigns) ListPublished(ctx context.Context) ([]model.Campaign, Result) {
	campaigns, err := s.repo.ListPublishedCampaigns(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list published campaigns")
		return nil, internal("Failed to fetch campaigns")
	}
	return campaigns, ok("")
}

func (s *Campaigns) Update(ctx context.Context, id int64, req dto.UpdateCampaignRequest) Result {
	blankAsNil(&req.Title, &req.Subtitle, &req.Description, &req.StartDate, &req.EndDate, &req.Location,
		&req.VenueDetails, &req.RegistrationDeadline, &req.BannerImageURL, &req.LogoImageURL,
		&req.ContactPhone, &req.ContactEmail, &req.PaymentAccountName, &req.PaymentAccountNumber,
		&req.PaymentBank, &req.PaymentInstructions, &req.SocialFacebook, &req.SocialTwitter,
		&req.SocialInstagram, &req.SocialYoutube)
	if err := validator.Validate(ctx, req); err != nil {
		return invalid(err)
	}

	if req.StartDate != nil || req.EndDate != nil {
		current, res := s.GetByID(ctx, id)
		if !res.Success {
			return res
		}
		start, end := current.StartDate, current.EndDate
		if req.StartDate != nil {
			start, _ = time.Parse(validator.DateLayout, *req.StartDate)
		}
		if req.EndDate != nil {
			end, _ = time.Parse(validator.DateLayout, *req.EndDate)
		}
		if end.Before(start) {
			return fail(dto.FieldIncorrect, "End date must not be before start date")
		}
	}

	patch := model.CampaignPatch{
		Title:                req.Title,
		Subtitle:             req.Subtitle,
		Description:          req.Description,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Location:             req.Location,
		VenueDetails:         req.VenueDetails,
		RegistrationFee:      req.RegistrationFee,
		RegistrationDeadline: req.RegistrationDeadline,
		TargetParticipants:   req.TargetParticipants,
		BannerImageURL:       req.BannerImageURL,
		LogoImageURL:         req.LogoImageURL,
		ContactPhone:         req.ContactPhone,
		ContactEmail:         req.ContactEmail,
		PaymentAccountName:   req.PaymentAccountName,
		PaymentAccountNumber: req.PaymentAccountNumber,
		PaymentBank:          req.PaymentBank,
		PaymentInstructions:  req.PaymentInstructions,
		SocialFacebook:       req.SocialFacebook,
		SocialTwitter:        req.SocialTwitter,
		SocialInstagram:      req.SocialInstagram,
		SocialYoutube:        req.SocialYoutube,
	}
	if err := s.repo.UpdateCampaign(ctx, id, patch); err != nil {
		return s.lifecycleFailure(err, id, "Failed to update campaign")
	}
	return ok("Campaign updated successfully")
}

func (s *Campaigns) Publish(ctx context.Context, id int64) Result {
	if err := s.repo.PublishCampaign(ctx, id); err != nil {
		return s.lifecycleFailure(err, id, "Failed to publish campaign")
	}
	s.log.Info().Int64("campaign_id", id).Msg("campaign published")
	return ok("Campaign published successfully")
}

// Opening requires a published campaign; closing always applies.
func (s *Campaigns) SetRegistrationOpen(ctx context.Context, id int64, open bool) Result {
	if err := s.repo.SetRegistrationOpen(ctx, id, open); err != nil {
		if errors.Is(err, repo.ErrNotPublished) {
			return fail(dto.CampaignNotPublished, "Registration can only be opened while the campaign is published")
		}
		return s.lifecycleFailure(err, id, "Failed to toggle registration")
	}
	if open {
		return ok("Registration opened")
	}
	return ok("Registration closed")
}

func (s *Campaigns) Close(ctx context.Context, id int64) Result {
	if err := s.repo.CloseCampaign(ctx, id); err != nil {
		return s.lifecycleFailure(err, id, "Failed to close campaign")
	}
	return ok("Campaign closed")
}

func (s *Campaigns) Archive(ctx context.Context, id int64) Result {
	if err := s.repo.ArchiveCampaign(ctx, id); err != nil {
		return s.lifecycleFailure(err, id, "Failed to archive campaign")
	}
	return ok("Campaign archived")
}

func (s *Campaigns) Delete(ctx context.Context, id int64) Result {
	if err := s.repo.DeleteDraftCampaign(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotDraft) {
			return fail(dto.CampaignNotDraft, "Only draft campaigns can be deleted")
		}
		return s.lifecycleFailure(err, id, "Failed to delete campaign")
	}
	s.log.Info().Int64("campaign_id", id).Msg("campaign deleted")
	return ok("Campaign deleted")
}

func (s *Campaigns) lifecycleFailure(err error, id int64, message string) Result {
	switch {
	case errors.Is(err, repo.ErrCampaignNotFound):
		return fail(dto.CampaignNotFound, msgCampaignNotFound)
	case errors.Is(err, repo.ErrCampaignArchived):
		return fail(dto.CampaignArchived, msgCampaignArchived)
	}
	s.log.Error().Err(err).Int64("campaign_id", id).Msg(strings.ToLower(message))
	return internal(message)
}

func (s *Campaigns) AddImage(ctx context.Context, campaignID int64, req dto.ImageRequest) (*model.CampaignImage, Result) {
	if err := validator.Validate(ctx, req); err != nil {
		return nil, invalid(err)
	}
	img := &model.CampaignImage{
		CampaignID: campaignID,
		ImageURL:   req.ImageURL,
		ImageType:  model.ImageType(req.ImageType),
		AltText:    req.AltText,
	}
	if _, err := s.repo.AddCampaignImage(ctx, img); err != nil {
		if errors.Is(err, repo.ErrCampaignNotFound) {
			return nil, fail(dto.CampaignNotFound, msgCampaignNotFound)
		}
		s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to add image")
		return nil, internal("Failed to add image")
	}
	return img, ok("Image added")
}

func (s *Campaigns) ListImages(ctx context.Context, campaignID int64) ([]model.CampaignImage, Result) {
	images, err := s.repo.ListCampaignImages(ctx, campaignID)
	if err != nil {
		s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to list images")
		return nil, internal("Failed to fetch images")
	}
	return images, ok("")
}

func (s *Campaigns) DeleteImage(ctx context.Context, campaignID, imageID int64) Result {
	if err := s.repo.DeleteCampaignImage(ctx, campaignID, imageID); err != nil {
		if errors.Is(err, repo.ErrImageNotFound) {
			return fail(dto.ImageNotFound, msgImageNotFound)
		}
		s.log.Error().Err(err).Int64("campaign_id", campaignID).Msg("failed to delete image")
		return internal("Failed to delete image")
	}
	return ok("Image deleted")
}

func blankAsNil(fields ...**string) {
	for _, f := range fields {
		if *f != nil && strings.TrimSpace(**f) == "" {
			*f = nil
		}
	}
}

func (s *Campaigns) Public(ctx context.Context, slug string) (*model.Campaign, []model.CampaignImage, Result) {
	c, res := s.GetBySlug(ctx, slug)
	if !res.Success {
		return nil, nil, res
	}
	if c.Status != model.CampaignPublished {
		return nil, nil, fail(dto.CampaignNotPublished, "This campaign is not currently active.")
	}
	images, res := s.ListImages(ctx, c.ID)
	if !res.Success {
		return nil, nil, res
	}
	return c, images, ok("")
}
