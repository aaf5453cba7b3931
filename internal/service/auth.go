package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"regdesk/internal/auth"
	"regdesk/internal/dto"
	"regdesk/internal/legacy"
	"regdesk/pkg/validator"
)

const msgInvalidCredentials = "Invalid email or password"

type AdminStore interface {
	FindAdminByEmail(ctx context.Context, email string) (*legacy.AdminUser, error)
	CreateAdmin(ctx context.Context, admin *legacy.AdminUser) error
}

// Session is a freshly issued admin token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     dto.AdminResponse
}

type Auth struct {
	store  AdminStore
	tokens *auth.Manager
	log    *zerolog.Logger
}

func NewAuth(store AdminStore, tokens *auth.Manager, log *zerolog.Logger) *Auth {
	return &Auth{store: store, tokens: tokens, log: log}
}

// Login never tells an unknown email apart from a wrong password.
func (s *Auth) Login(ctx context.Context, req dto.LoginRequest) (*Session, Result) {
	if !s.tokens.Configured() {
		return nil, fail(dto.AuthNotConfigured, "Authentication is not configured")
	}
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(ctx, req); err != nil {
		return nil, invalid(err)
	}

	admin, err := s.store.FindAdminByEmail(ctx, req.Email)
	if errors.Is(err, legacy.ErrAdminNotFound) {
		return nil, fail(dto.Unauthorized, msgInvalidCredentials)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to look up admin")
		return nil, internal("Login failed")
	}
	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		s.log.Warn().Str("email", req.Email).Msg("rejected admin login")
		return nil, fail(dto.Unauthorized, msgInvalidCredentials)
	}

	token, expires, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		s.log.Error().Err(err).Int64("admin_id", admin.ID).Msg("failed to issue token")
		return nil, internal("Login failed")
	}

	s.log.Info().Int64("admin_id", admin.ID).Msg("admin logged in")
	return &Session{
		Token:     token,
		ExpiresAt: expires,
		Admin:     dto.AdminResponse{ID: admin.ID, Email: admin.Email, Name: admin.Name},
	}, ok("Login successful")
}

func (s *Auth) Verify(token string) (*auth.Claims, Result) {
	if !s.tokens.Configured() {
		return nil, fail(dto.AuthNotConfigured, "Authentication is not configured")
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fail(dto.Unauthorized, "Unauthorized")
	}
	return claims, ok("")
}

// CreateAdmin provisions an operator account with a bcrypt hash.
func (s *Auth) CreateAdmin(ctx context.Context, email, password, name string) (*dto.AdminResponse, Result) {
	email = normalizeEmail(email)
	if email == "" || len(password) < 8 {
		return nil, fail(dto.FieldIncorrect, "Email and a password of at least 8 characters are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		return nil, internal("Failed to create admin")
	}

	admin := &legacy.AdminUser{Email: email, PasswordHash: hash, Name: name}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, legacy.ErrDuplicateAdmin) {
			return nil, fail(dto.AdminDuplicate, "An admin with this email already exists")
		}
		s.log.Error().Err(err).Msg("failed to create admin")
		return nil, internal("Failed to create admin")
	}
	return &dto.AdminResponse{ID: admin.ID, Email: admin.Email, Name: admin.Name}, ok("Admin created")
}
