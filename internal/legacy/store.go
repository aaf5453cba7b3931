package legacy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"regdesk/internal/model"
)

var (
	ErrAdminNotFound        = errors.New("admin not found")
	ErrDuplicateAdmin       = errors.New("admin already exists")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
)

const constraintUniqueEmail = "unique_email_registration"

// Store serves the pre-campaign tables over the same connection pool as the campaign repository.
// It does not ping on construction, so an unreachable database only fails individual calls.
type Store struct {
	db *gorm.DB
}

func NewStore(sqlDB *sql.DB, log *zerolog.Logger) (*Store, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               newGormLogger(log),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*AdminUser, error) {
	var admin AdminUser
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}

func (s *Store) CreateAdmin(ctx context.Context, admin *AdminUser) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateAdmin
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (s *Store) SubmitRegistration(ctx context.Context, reg *Registration) (int64, error) {
	if reg.Status == "" {
		reg.Status = string(model.ApprovalPending)
	}
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		if isUniqueViolation(err, constraintUniqueEmail) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to insert legacy registration: %w", err)
	}
	return reg.ID, nil
}

func (s *Store) ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]Registration, error) {
	q := s.db.WithContext(ctx).Model(&Registration{})
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	regs := []Registration{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to list legacy registrations: %w", err)
	}
	return regs, nil
}

func (s *Store) ApproveRegistration(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&Registration{}).
		Where("id = ?", id).
		Update("status", string(model.ApprovalApproved))
	if res.Error != nil {
		return fmt.Errorf("failed to approve legacy registration %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// GetSettings treats a missing row as open.
func (s *Store) GetSettings(ctx context.Context) (*Settings, error) {
	var st Settings
	err := s.db.WithContext(ctx).First(&st, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Settings{ID: settingsRowID, IsOpen: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registration settings: %w", err)
	}
	return &st, nil
}

func (s *Store) UpdateSettings(ctx context.Context, open bool, reason string) (*Settings, error) {
	st := Settings{ID: settingsRowID, IsOpen: open, CloseReason: strings.TrimSpace(reason), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_open", "close_reason", "updated_at"}),
	}).Create(&st).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update registration settings: %w", err)
	}
	return &st, nil
}

// isUniqueViolation matches a lib/pq unique violation, optionally on a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

type gormLogger struct {
	log           *zerolog.Logger
	slowThreshold time.Duration
}

func newGormLogger(log *zerolog.Logger) logger.Interface {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &gormLogger{log: log, slowThreshold: 200 * time.Millisecond}
}

func (l *gormLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	l.log.Info().Msgf(msg, args...)
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	l.log.Warn().Msgf(msg, args...)
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	l.log.Error().Msgf(msg, args...)
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sqlText, rows := fc()
		l.log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sqlText).Msg("legacy query failed")
	case elapsed > l.slowThreshold:
		sqlText, rows := fc()
		l.log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sqlText).Msg("slow legacy query")
	}
}
