package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"regdesk/internal/model"
)

var (
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrDuplicateSlug         = errors.New("campaign slug already exists")
	ErrNotDraft              = errors.New("campaign is not a draft")
	ErrNotPublished          = errors.New("campaign is not published")
	ErrCampaignArchived      = errors.New("campaign is archived")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrImageNotFound         = errors.New("image not found")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	constraintCampaignSlug     = "campaigns_slug_key"
	constraintEmailPerCampaign = "unique_email_per_campaign"
)

type Repository interface {
	CreateCampaign(ctx context.Context, c *model.Campaign) (int64, error)
	GetCampaignByID(ctx context.Context, id int64) (*model.Campaign, error)
	GetCampaignBySlug(ctx context.Context, slug string) (*model.Campaign, error)
	ListCampaigns(ctx context.Context, includeArchived bool) ([]model.Campaign, error)
	ListPublishedCampaigns(ctx context.Context) ([]model.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, patch model.CampaignPatch) error
	PublishCampaign(ctx context.Context, id int64) error
	SetRegistrationOpen(ctx context.Context, id int64, open bool) error
	CloseCampaign(ctx context.Context, id int64) error
	ArchiveCampaign(ctx context.Context, id int64) error
	DeleteDraftCampaign(ctx context.Context, id int64) error

	CreateRegistration(ctx context.Context, r *model.NewRegistration) (int64, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.CampaignRegistration, error)
	ListRegistrations(ctx context.Context, campaignID int64, f model.RegistrationFilter) ([]model.CampaignRegistration, error)
	ListUnpaidRegistrations(ctx context.Context, campaignID int64) ([]model.CampaignRegistration, error)
	RegistrationStats(ctx context.Context, campaignID int64) (*model.RegistrationStats, error)
	SetApprovalStatus(ctx context.Context, ids []int64, status model.ApprovalStatus) (int64, error)
	SetPaymentStatus(ctx context.Context, id int64, status model.PaymentStatus, reference string) error

	AddCampaignImage(ctx context.Context, img *model.CampaignImage) (int64, error)
	ListCampaignImages(ctx context.Context, campaignID int64) ([]model.CampaignImage, error)
	DeleteCampaignImage(ctx context.Context, campaignID, imageID int64) error

	TrackEmail(ctx context.Context, registrationID int64, kind model.EmailKind) error
	ListEmailTracking(ctx context.Context, registrationID int64) ([]model.EmailTracking, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

// Reads go through dbpg's replica balancer; INSERT ... RETURNING goes to Master.
type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil || db.Master == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func Unchecked(db *dbpg.DB, log *zerolog.Logger) Repository {
	return &repository{db: db, log: log}
}

func (r *repository) MigrateUp(migrationsDir string) error {
	return r.migrate(migrationsDir, func(m *migrate.Migrate) error { return m.Up() })
}

func (r *repository) MigrateDown(migrationsDir string) error {
	return r.migrate(migrationsDir, func(m *migrate.Migrate) error { return m.Down() })
}

func (r *repository) migrate(migrationsDir string, fn func(*migrate.Migrate) error) error {
	ctx := context.Background()
	conn, err := r.db.Master.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to init migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("failed to read migrations from %s: %w", migrationsDir, err)
	}
	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations from %s: %w", migrationsDir, err)
	}

	version, dirty, _ := m.Version()
	r.log.Info().Uint("version", version).Bool("dirty", dirty).Msgf("Migrations applied from %s", migrationsDir)
	return nil
}

func classify(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case uniqueViolation:
			switch pqErr.Constraint {
			case constraintCampaignSlug:
				return ErrDuplicateSlug
			case constraintEmailPerCampaign:
				return ErrDuplicateRegistration
			}
		case foreignKeyViolation:
			return ErrCampaignNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *repository) campaignExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM campaigns WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check campaign: %w", err)
	}
	return exists, nil
}

func (r *repository) explainNoRows(ctx context.Context, id int64, guard error) error {
	exists, err := r.campaignExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCampaignNotFound
	}
	return guard
}

func affected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
