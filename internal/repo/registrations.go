package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"regdesk/internal/model"
)

const registrationColumns = `
	id, campaign_id, first_name, COALESCE(middle_name, ''), last_name, email, phone,
	COALESCE(alt_phone, ''), gender, dob, COALESCE(marital_status, ''), COALESCE(city, ''),
	COALESCE(address, ''), COALESCE(institute, ''), COALESCE(professional_status, ''),
	COALESCE(workplace, ''), attended, COALESCE(expectations, ''), COALESCE(hear_about, ''),
	COALESCE(status, 'pending'), COALESCE(payment_status, 'unpaid'),
	COALESCE(payment_reference, ''), payment_date, created_at`

func scanRegistration(row rowScanner) (*model.CampaignRegistration, error) {
	var reg model.CampaignRegistration
	if err := row.Scan(
		&reg.ID, &reg.CampaignID, &reg.FirstName, &reg.MiddleName, &reg.LastName, &reg.Email, &reg.Phone,
		&reg.AltPhone, &reg.Gender, &reg.DOB, &reg.MaritalStatus, &reg.City,
		&reg.Address, &reg.Institute, &reg.ProfessionalStatus,
		&reg.Workplace, &reg.Attended, &reg.Expectations, &reg.HearAbout,
		&reg.Status, &reg.PaymentStatus,
		&reg.PaymentReference, &reg.PaymentDate, &reg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) CreateRegistration(ctx context.Context, nr *model.NewRegistration) (int64, error) {
	query := `
		INSERT INTO campaign_registrations (
			campaign_id, first_name, middle_name, last_name, email, phone, alt_phone,
			gender, dob, marital_status, city, address, institute, professional_status,
			workplace, attended, expectations, hear_about
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''),
			$8, $9, NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''),
			NULLIF($15, ''), $16, NULLIF($17, ''), NULLIF($18, '')
		)
		RETURNING id
	`

	var id int64
	err := r.db.Master.QueryRowContext(ctx, query,
		nr.CampaignID, nr.FirstName, nr.MiddleName, nr.LastName, nr.Email, nr.Phone, nr.AltPhone,
		nr.Gender, nr.DOB, nr.MaritalStatus, nr.City, nr.Address, nr.Institute, nr.ProfessionalStatus,
		nr.Workplace, nr.Attended, nr.Expectations, nr.HearAbout,
	).Scan(&id)
	if err != nil {
		return 0, classify(err, "failed to insert registration")
	}
	return id, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.CampaignRegistration, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+registrationColumns+` FROM campaign_registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration %d: %w", id, err)
	}
	return reg, nil
}

func (r *repository) ListRegistrations(ctx context.Context, campaignID int64, f model.RegistrationFilter) ([]model.CampaignRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM campaign_registrations
		WHERE campaign_id = $1
		  AND ($2::text = '' OR first_name ILIKE $3 OR last_name ILIKE $3 OR email ILIKE $3 OR phone ILIKE $3)
		  AND ($4::text = '' OR status = $4)
		  AND ($5::text = '' OR payment_status = $5)
		ORDER BY created_at DESC, id DESC
	`
	search := strings.TrimSpace(f.Search)
	return r.queryRegistrations(ctx, query,
		campaignID, search, "%"+escapeLike(search)+"%", string(f.Status), string(f.PaymentStatus),
	)
}

func (r *repository) ListUnpaidRegistrations(ctx context.Context, campaignID int64) ([]model.CampaignRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM campaign_registrations
		WHERE campaign_id = $1 AND COALESCE(payment_status, 'unpaid') = 'unpaid'
		ORDER BY id ASC
	`
	return r.queryRegistrations(ctx, query, campaignID)
}

func (r *repository) queryRegistrations(ctx context.Context, query string, args ...any) ([]model.CampaignRegistration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	regs := []model.CampaignRegistration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}
	return regs, nil
}

func (r *repository) RegistrationStats(ctx context.Context, campaignID int64) (*model.RegistrationStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE payment_status = 'paid'),
			COUNT(*) FILTER (WHERE payment_status = 'unpaid'),
			COUNT(*) FILTER (WHERE payment_status = 'refunded')
		FROM campaign_registrations
		WHERE campaign_id = $1
	`
	var s model.RegistrationStats
	if err := r.db.QueryRowContext(ctx, query, campaignID).Scan(
		&s.Total, &s.Pending, &s.Approved, &s.Rejected, &s.Paid, &s.Unpaid, &s.Refunded,
	); err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	return &s, nil
}

// SetApprovalStatus leaves payment_status untouched.
func (r *repository) SetApprovalStatus(ctx context.Context, ids []int64, status model.ApprovalStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE campaign_registrations SET status = $1 WHERE id = ANY($2)`,
		string(status), pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update registration status: %w", err)
	}
	return affected(res, "failed to update registration status")
}

func (r *repository) SetPaymentStatus(ctx context.Context, id int64, status model.PaymentStatus, reference string) error {
	query := `
		UPDATE campaign_registrations SET
			payment_status    = $2::text,
			payment_reference = NULLIF($3, ''),
			payment_date      = CASE WHEN $2::text = 'paid' THEN NOW() ELSE NULL END
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, string(status), strings.TrimSpace(reference))
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	n, err := affected(res, "failed to update payment status")
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *repository) TrackEmail(ctx context.Context, registrationID int64, kind model.EmailKind) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO campaign_email_tracking (registration_id, email_type) VALUES ($1, $2)`,
		registrationID, string(kind),
	)
	if err != nil {
		return fmt.Errorf("failed to track %s email: %w", kind, err)
	}
	return nil
}

func (r *repository) ListEmailTracking(ctx context.Context, registrationID int64) ([]model.EmailTracking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, registration_id, email_type, sent_at
		FROM campaign_email_tracking
		WHERE registration_id = $1
		ORDER BY sent_at DESC
	`, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get email tracking: %w", err)
	}
	defer rows.Close()

	out := []model.EmailTracking{}
	for rows.Next() {
		var t model.EmailTracking
		if err := rows.Scan(&t.ID, &t.RegistrationID, &t.EmailType, &t.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan email tracking: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
