package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"regdesk/internal/model"
)

const campaignColumns = `
	id, slug, title, COALESCE(subtitle, ''), COALESCE(description, ''),
	start_date, end_date, location, COALESCE(venue_details, ''), registration_fee,
	registration_deadline, COALESCE(status, 'draft'), COALESCE(is_registration_open, false),
	target_participants, COALESCE(banner_image_url, ''), COALESCE(logo_image_url, ''),
	COALESCE(contact_phone, ''), COALESCE(contact_email, ''),
	COALESCE(payment_account_name, ''), COALESCE(payment_account_number, ''),
	COALESCE(payment_bank, ''), COALESCE(payment_instructions, ''),
	COALESCE(social_facebook, ''), COALESCE(social_twitter, ''),
	COALESCE(social_instagram, ''), COALESCE(social_youtube, ''),
	created_at, updated_at, published_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	if err := row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Subtitle, &c.Description,
		&c.StartDate, &c.EndDate, &c.Location, &c.VenueDetails, &c.RegistrationFee,
		&c.RegistrationDeadline, &c.Status, &c.IsRegistrationOpen,
		&c.TargetParticipants, &c.BannerImageURL, &c.LogoImageURL,
		&c.ContactPhone, &c.ContactEmail,
		&c.PaymentAccountName, &c.PaymentAccountNumber,
		&c.PaymentBank, &c.PaymentInstructions,
		&c.SocialFacebook, &c.SocialTwitter,
		&c.SocialInstagram, &c.SocialYoutube,
		&c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateCampaign(ctx context.Context, c *model.Campaign) (int64, error) {
	query := `
		INSERT INTO campaigns (
			slug, title, subtitle, description, start_date, end_date, location,
			venue_details, registration_fee, registration_deadline, target_participants,
			banner_image_url, logo_image_url, contact_phone, contact_email,
			payment_account_name, payment_account_number, payment_bank, payment_instructions,
			social_facebook, social_twitter, social_instagram, social_youtube,
			status, is_registration_open
		) VALUES (
			$1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7,
			NULLIF($8, ''), $9, $10, $11,
			NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, ''),
			NULLIF($16, ''), NULLIF($17, ''), NULLIF($18, ''), NULLIF($19, ''),
			NULLIF($20, ''), NULLIF($21, ''), NULLIF($22, ''), NULLIF($23, ''),
			'draft', false
		)
		RETURNING id
	`

	var id int64
	err := r.db.Master.QueryRowContext(ctx, query,
		c.Slug, c.Title, c.Subtitle, c.Description, c.StartDate, c.EndDate, c.Location,
		c.VenueDetails, c.RegistrationFee, c.RegistrationDeadline, c.TargetParticipants,
		c.BannerImageURL, c.LogoImageURL, c.ContactPhone, c.ContactEmail,
		c.PaymentAccountName, c.PaymentAccountNumber, c.PaymentBank, c.PaymentInstructions,
		c.SocialFacebook, c.SocialTwitter, c.SocialInstagram, c.SocialYoutube,
	).Scan(&id)
	if err != nil {
		return 0, classify(err, "failed to insert campaign")
	}
	return id, nil
}

func (r *repository) GetCampaignByID(ctx context.Context, id int64) (*model.Campaign, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %d: %w", id, err)
	}
	return c, nil
}

func (r *repository) GetCampaignBySlug(ctx context.Context, slug string) (*model.Campaign, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE slug = $1`, slug)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %q: %w", slug, err)
	}
	return c, nil
}

func (r *repository) ListCampaigns(ctx context.Context, includeArchived bool) ([]model.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE $1::boolean OR status <> 'archived'
		ORDER BY created_at DESC
	`
	return r.queryCampaigns(ctx, query, includeArchived)
}

func (r *repository) ListPublishedCampaigns(ctx context.Context) ([]model.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE status = 'published'
		ORDER BY start_date ASC
	`
	return r.queryCampaigns(ctx, query)
}

func (r *repository) queryCampaigns(ctx context.Context, query string, args ...any) ([]model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *repository) UpdateCampaign(ctx context.Context, id int64, p model.CampaignPatch) error {
	query := `
		UPDATE campaigns SET
			title                  = COALESCE(NULLIF($2, ''), title),
			subtitle               = COALESCE(NULLIF($3, ''), subtitle),
			description            = COALESCE(NULLIF($4, ''), description),
			start_date             = COALESCE(NULLIF($5, '')::date, start_date),
			end_date               = COALESCE(NULLIF($6, '')::date, end_date),
			location               = COALESCE(NULLIF($7, ''), location),
			venue_details          = COALESCE(NULLIF($8, ''), venue_details),
			registration_fee       = COALESCE($9, registration_fee),
			registration_deadline  = COALESCE(NULLIF($10, '')::date, registration_deadline),
			target_participants    = COALESCE($11, target_participants),
			banner_image_url       = COALESCE(NULLIF($12, ''), banner_image_url),
			logo_image_url         = COALESCE(NULLIF($13, ''), logo_image_url),
			contact_phone          = COALESCE(NULLIF($14, ''), contact_phone),
			contact_email          = COALESCE(NULLIF($15, ''), contact_email),
			payment_account_name   = COALESCE(NULLIF($16, ''), payment_account_name),
			payment_account_number = COALESCE(NULLIF($17, ''), payment_account_number),
			payment_bank           = COALESCE(NULLIF($18, ''), payment_bank),
			payment_instructions   = COALESCE(NULLIF($19, ''), payment_instructions),
			social_facebook        = COALESCE(NULLIF($20, ''), social_facebook),
			social_twitter         = COALESCE(NULLIF($21, ''), social_twitter),
			social_instagram       = COALESCE(NULLIF($22, ''), social_instagram),
			social_youtube         = COALESCE(NULLIF($23, ''), social_youtube),
			updated_at             = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id,
		p.Title, p.Subtitle, p.Description, p.StartDate, p.EndDate, p.Location,
		p.VenueDetails, p.RegistrationFee, p.RegistrationDeadline, p.TargetParticipants,
		p.BannerImageURL, p.LogoImageURL, p.ContactPhone, p.ContactEmail,
		p.PaymentAccountName, p.PaymentAccountNumber, p.PaymentBank, p.PaymentInstructions,
		p.SocialFacebook, p.SocialTwitter, p.SocialInstagram, p.SocialYoutube,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign %d: %w", id, err)
	}
	n, err := affected(res, "failed to update campaign")
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// Restamps published_at on every call.
func (r *repository) PublishCampaign(ctx context.Context, id int64) error {
	query := `
		UPDATE campaigns
		SET status = 'published', is_registration_open = true,
		    published_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status <> 'archived'
	`
	return r.guardedUpdate(ctx, id, query, ErrCampaignArchived, id)
}

func (r *repository) SetRegistrationOpen(ctx context.Context, id int64, open bool) error {
	query := `
		UPDATE campaigns
		SET is_registration_open = $2, updated_at = NOW()
		WHERE id = $1 AND (status = 'published' OR NOT $2::boolean)
	`
	return r.guardedUpdate(ctx, id, query, ErrNotPublished, id, open)
}

func (r *repository) CloseCampaign(ctx context.Context, id int64) error {
	query := `
		UPDATE campaigns
		SET status = 'closed', is_registration_open = false, updated_at = NOW()
		WHERE id = $1 AND status <> 'archived'
	`
	return r.guardedUpdate(ctx, id, query, ErrCampaignArchived, id)
}

func (r *repository) ArchiveCampaign(ctx context.Context, id int64) error {
	query := `
		UPDATE campaigns
		SET status = 'archived', is_registration_open = false, updated_at = NOW()
		WHERE id = $1
	`
	return r.guardedUpdate(ctx, id, query, ErrCampaignNotFound, id)
}

func (r *repository) DeleteDraftCampaign(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign %d: %w", id, err)
	}
	n, err := affected(res, "failed to delete campaign")
	if err != nil {
		return err
	}
	if n == 0 {
		return r.explainNoRows(ctx, id, ErrNotDraft)
	}
	return nil
}

func (r *repository) guardedUpdate(ctx context.Context, id int64, query string, guard error, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update campaign %d: %w", id, err)
	}
	n, err := affected(res, "failed to update campaign")
	if err != nil {
		return err
	}
	if n == 0 {
		return r.explainNoRows(ctx, id, guard)
	}
	return nil
}
