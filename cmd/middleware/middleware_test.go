package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"regdesk/internal/auth"
	"regdesk/internal/dto"
	"regdesk/internal/routing"
	"regdesk/internal/service"
)

func newEngine(rule routing.Rule) *ginext.Engine {
	log := zerolog.Nop()
	e := ginext.New("release")
	e.Use(SubdomainRewrite(rule, e), LoggingMiddleware(&log), AdminCookieGate())
	e.GET("/", func(c *ginext.Context) { c.String(http.StatusOK, "home") })
	e.GET("/campaigns/:slug", func(c *ginext.Context) { c.String(http.StatusOK, "campaign "+c.Param("slug")) })
	e.POST("/campaigns/:slug/register", func(c *ginext.Context) { c.String(http.StatusOK, "register "+c.Param("slug")) })
	e.GET("/admin/campaigns", func(c *ginext.Context) { c.String(http.StatusOK, "admin") })
	e.POST("/admin/campaigns", func(c *ginext.Context) { c.String(http.StatusOK, "admin") })
	e.POST("/admin/login", func(c *ginext.Context) { c.String(http.StatusOK, "login") })
	return e
}

func TestSubdomainRewrite(t *testing.T) {
	e := newEngine(routing.NewRule([]string{"example.com"}, "main", nil))

	tests := []struct {
		method, host, path string
		wantCode           int
		wantBody           string
	}{
		{http.MethodGet, "summit.example.com", "/", http.StatusOK, "campaign summit"},
		{http.MethodPost, "summit.example.com:8080", "/register", http.StatusOK, "register summit"},
		{http.MethodGet, "summit.localhost:3000", "/", http.StatusOK, "campaign summit"},
		{http.MethodGet, "www.example.com", "/", http.StatusOK, "home"},
		{http.MethodGet, "main.example.com", "/", http.StatusOK, "home"},
		{http.MethodGet, "example.com", "/", http.StatusOK, "home"},
		{http.MethodGet, "summit.example.com", "/campaigns/other", http.StatusOK, "campaign other"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Host = tt.host
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		if w.Code != tt.wantCode || w.Body.String() != tt.wantBody {
			t.Fatalf("%s %s%s = %d %q, want %d %q", tt.method, tt.host, tt.path, w.Code, w.Body.String(), tt.wantCode, tt.wantBody)
		}
	}
}

func TestAdminCookieGate(t *testing.T) {
	e := newEngine(routing.NewRule(nil, "", nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/campaigns", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusFound || w.Header().Get("Location") != routing.LoginPath {
		t.Fatalf("GET without cookie = %d %q, want 302 to login", w.Code, w.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/campaigns", nil)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("POST without cookie = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login without cookie = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/campaigns", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "anything"})
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET with cookie = %d, want 200", w.Code)
	}
}

type stubVerifier struct {
	res service.Result
}

func (v stubVerifier) Verify(token string) (*auth.Claims, service.Result) {
	if !v.res.Success {
		return nil, v.res
	}
	return &auth.Claims{Email: token}, v.res
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		verifier stubVerifier
		header   string
		want     int
	}{
		{"no token", stubVerifier{res: service.Result{Success: true}}, "", http.StatusUnauthorized},
		{"valid", stubVerifier{res: service.Result{Success: true}}, "Bearer ops@example.com", http.StatusOK},
		{"invalid", stubVerifier{res: service.Result{Code: dto.Unauthorized, Message: "Unauthorized"}}, "Bearer x", http.StatusUnauthorized},
		{"not configured", stubVerifier{res: service.Result{Code: dto.AuthNotConfigured, Message: "Authentication is not configured"}}, "Bearer x", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ginext.New("release")
			e.GET("/private", RequireAdmin(tt.verifier), func(c *ginext.Context) {
				claims := c.MustGet(AdminClaimsKey).(*auth.Claims)
				c.String(http.StatusOK, claims.Email)
			})
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
