package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("s3cret", 0)
	if m.TTL() != 7*24*time.Hour {
		t.Fatalf("TTL() = %v, want 168h", m.TTL())
	}

	token, expires, err := m.Issue(12, "admin@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if d := time.Until(expires); d < 167*time.Hour || d > 169*time.Hour {
		t.Fatalf("expires in %v, want about 7 days", d)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.AdminID() != 12 || claims.Email != "admin@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := NewManager("s3cret", time.Hour)
	token, _, _ := m.Issue(1, "a@example.com")

	if _, err := NewManager("other", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify(wrong secret) error = %v, want ErrInvalidToken", err)
	}
	if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify(garbage) error = %v, want ErrInvalidToken", err)
	}

	later := NewManager("s3cret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify(expired) error = %v, want ErrInvalidToken", err)
	}
}

func TestNotConfigured(t *testing.T) {
	m := NewManager("", 0)
	if m.Configured() {
		t.Fatalf("Configured() = true, want false")
	}
	if _, _, err := m.Issue(1, "a@example.com"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Issue() error = %v, want ErrNotConfigured", err)
	}
	if _, err := m.Verify("x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Verify() error = %v, want ErrNotConfigured", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatalf("CheckPassword(correct) = false")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatalf("CheckPassword(wrong) = true")
	}
}

func TestCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCookie(rec, "tok", time.Now().Add(DefaultTTL), true)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie = %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(c)
	if tok, ok := TokenFromRequest(req); !ok || tok != "tok" {
		t.Fatalf("TokenFromRequest(cookie) = %q, %v", tok, ok)
	}
	if !HasCookie(req) {
		t.Fatalf("HasCookie() = false, want true")
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer abc")
	if tok, ok := TokenFromRequest(req); !ok || tok != "abc" {
		t.Fatalf("TokenFromRequest(bearer) = %q, %v", tok, ok)
	}
	if HasCookie(req) {
		t.Fatalf("HasCookie(bearer only) = true, want false")
	}

	rec = httptest.NewRecorder()
	ClearCookie(rec, false)
	if c := rec.Result().Cookies()[0]; c.MaxAge >= 0 {
		t.Fatalf("cleared cookie MaxAge = %d, want < 0", c.MaxAge)
	}
}
