package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"regdesk/internal/auth"
	"regdesk/internal/dto"
	"regdesk/internal/legacy"
)

type fakeAdmins struct {
	byEmail map[string]*legacy.AdminUser
	nextID  int64
}

func newFakeAdmins() *fakeAdmins {
	return &fakeAdmins{byEmail: map[string]*legacy.AdminUser{}}
}

func (f *fakeAdmins) FindAdminByEmail(_ context.Context, email string) (*legacy.AdminUser, error) {
	a, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, legacy.ErrAdminNotFound
	}
	return a, nil
}

func (f *fakeAdmins) CreateAdmin(_ context.Context, admin *legacy.AdminUser) error {
	if _, ok := f.byEmail[admin.Email]; ok {
		return legacy.ErrDuplicateAdmin
	}
	f.nextID++
	admin.ID = f.nextID
	f.byEmail[admin.Email] = admin
	return nil
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuth(newFakeAdmins(), auth.NewManager("test-secret", auth.DefaultTTL), &nopLog)

	created, res := svc.CreateAdmin(ctx, "Admin@Example.com", "correct horse", "Ops")
	if !res.Success {
		t.Fatalf("CreateAdmin() = %+v", res)
	}
	if created.Email != "admin@example.com" {
		t.Fatalf("email = %q, want lower-cased", created.Email)
	}
	if _, res := svc.CreateAdmin(ctx, "admin@example.com", "another one", ""); res.Code != dto.AdminDuplicate {
		t.Fatalf("CreateAdmin(duplicate) = %+v", res)
	}

	session, res := svc.Login(ctx, dto.LoginRequest{Email: "ADMIN@example.com", Password: "correct horse"})
	if !res.Success {
		t.Fatalf("Login() = %+v", res)
	}
	if until := time.Until(session.ExpiresAt); until < 6*24*time.Hour || until > 7*24*time.Hour {
		t.Fatalf("token expires in %s, want about 7 days", until)
	}
	claims, res := svc.Verify(session.Token)
	if !res.Success || claims.AdminID() != created.ID {
		t.Fatalf("Verify() = %+v, %+v", claims, res)
	}

	for _, req := range []dto.LoginRequest{
		{Email: "admin@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "correct horse"},
	} {
		_, res := svc.Login(ctx, req)
		if res.Code != dto.Unauthorized || res.Message != "Invalid email or password" {
			t.Fatalf("Login(%s) = %+v", req.Email, res)
		}
	}

	if _, res := svc.Verify("garbage"); res.Code != dto.Unauthorized {
		t.Fatalf("Verify(garbage) = %+v", res)
	}
}

func TestLoginNotConfigured(t *testing.T) {
	svc := NewAuth(newFakeAdmins(), auth.NewManager("", auth.DefaultTTL), &nopLog)
	_, res := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "x"})
	if res.Code != dto.AuthNotConfigured {
		t.Fatalf("Login() = %+v, want %s", res, dto.AuthNotConfigured)
	}
	if _, res := svc.Verify("token"); res.Code != dto.AuthNotConfigured {
		t.Fatalf("Verify() = %+v, want %s", res, dto.AuthNotConfigured)
	}
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	svc := NewAuth(newFakeAdmins(), auth.NewManager("s", auth.DefaultTTL), &nopLog)
	if _, res := svc.CreateAdmin(context.Background(), "a@example.com", "short", ""); res.Code != dto.FieldIncorrect {
		t.Fatalf("CreateAdmin() = %+v", res)
	}
}
