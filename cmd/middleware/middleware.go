package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"regdesk/internal/auth"
	"regdesk/internal/dto"
	"regdesk/internal/routing"
	"regdesk/internal/service"
)

const AdminClaimsKey = "admin_claims"

type originalPathKey struct{}

func LoggingMiddleware(log *zerolog.Logger) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		if orig, ok := c.Request.Context().Value(originalPathKey{}).(string); ok {
			ev = ev.Str("original_path", orig)
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// SubdomainRewrite maps {slug}.{base}/rest onto /campaigns/{slug}/rest and re-dispatches
// the request through engine. It must run before any middleware that should see the
// rewritten path only once.
func SubdomainRewrite(rule routing.Rule, engine *ginext.Engine) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		path, rewritten := rule.Rewrite(c.Request.Host, c.Request.URL.Path)
		if !rewritten {
			c.Next()
			return
		}
		ctx := context.WithValue(c.Request.Context(), originalPathKey{}, c.Request.URL.Path)
		c.Request = c.Request.WithContext(ctx)
		c.Request.URL.Path = path
		c.Request.URL.RawPath = ""
		engine.HandleContext(c)
		c.Abort()
	}
}

// AdminCookieGate only checks that the admin cookie is present; RequireAdmin verifies it.
func AdminCookieGate() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		if !routing.AdminGate(c.Request.URL.Path, auth.HasCookie(c.Request)) {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Redirect(http.StatusFound, routing.LoginPath)
			c.Abort()
			return
		}
		dto.UnauthorizedError(c, "Unauthorized")
	}
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, service.Result)
}

func RequireAdmin(verifier TokenVerifier) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		token, ok := auth.TokenFromRequest(c.Request)
		if !ok {
			dto.UnauthorizedError(c, "Unauthorized")
			return
		}
		claims, res := verifier.Verify(token)
		if !res.Success {
			if res.Code == dto.AuthNotConfigured {
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Response{Message: res.Message, Code: res.Code})
				return
			}
			dto.UnauthorizedError(c, res.Message)
			return
		}
		c.Set(AdminClaimsKey, claims)
		c.Next()
	}
}
