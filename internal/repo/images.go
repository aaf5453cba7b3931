package repo

import (
	"context"
	"fmt"

	"regdesk/internal/model"
)

func (r *repository) AddCampaignImage(ctx context.Context, img *model.CampaignImage) (int64, error) {
	if img.ImageType == "" {
		img.ImageType = model.ImageGallery
	}
	query := `
		INSERT INTO campaign_images (campaign_id, image_url, image_type, alt_text, display_order)
		SELECT $1, $2, $3, NULLIF($4, ''), COALESCE(MAX(display_order), 0) + 1
		FROM campaign_images
		WHERE campaign_id = $1
		RETURNING id, display_order, created_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		img.CampaignID, img.ImageURL, string(img.ImageType), img.AltText,
	).Scan(&img.ID, &img.DisplayOrder, &img.CreatedAt)
	if err != nil {
		return 0, classify(err, "failed to insert image")
	}
	return img.ID, nil
}

func (r *repository) ListCampaignImages(ctx context.Context, campaignID int64) ([]model.CampaignImage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, campaign_id, image_url, COALESCE(image_type, 'gallery'), COALESCE(alt_text, ''),
		       COALESCE(display_order, 0), created_at
		FROM campaign_images
		WHERE campaign_id = $1
		ORDER BY display_order ASC, id ASC
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}
	defer rows.Close()

	images := []model.CampaignImage{}
	for rows.Next() {
		var img model.CampaignImage
		if err := rows.Scan(
			&img.ID, &img.CampaignID, &img.ImageURL, &img.ImageType, &img.AltText,
			&img.DisplayOrder, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *repository) DeleteCampaignImage(ctx context.Context, campaignID, imageID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM campaign_images WHERE id = $1 AND campaign_id = $2`, imageID, campaignID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete image %d: %w", imageID, err)
	}
	n, err := affected(res, "failed to delete image")
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrImageNotFound
	}
	return nil
}
