package api

import (
	"github.com/wb-go/wbf/ginext"

	"regdesk/cmd/middleware"
	"regdesk/internal/auth"
	"regdesk/internal/dto"
)

// LoginPage is where the cookie gate sends browsers without a session.
func (r *Routers) LoginPage(c *ginext.Context) {
	dto.SuccessResponse(c, "Sign in by posting email and password to this path", nil)
}

func (r *Routers) Login(c *ginext.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid request body")
		return
	}
	session, res := r.Auth.Login(c.Request.Context(), req)
	if !res.Success {
		dto.ErrorResponse(c, res.Code, res.Message)
		return
	}
	auth.WriteCookie(c.Writer, session.Token, session.ExpiresAt, r.CookieSecure)
	dto.SuccessResponse(c, res.Message, ginext.H{
		"admin":      session.Admin,
		"expires_at": session.ExpiresAt,
	})
}

func (r *Routers) Logout(c *ginext.Context) {
	auth.ClearCookie(c.Writer, r.CookieSecure)
	dto.SuccessResponse(c, "Logged out", nil)
}

func (r *Routers) Me(c *ginext.Context) {
	claims := c.MustGet(middleware.AdminClaimsKey).(*auth.Claims)
	dto.SuccessResponse(c, "", dto.AdminResponse{ID: claims.AdminID(), Email: claims.Email})
}

func (r *Routers) RegistrationStatus(c *ginext.Context) {
	st, res := r.Legacy.Settings(c.Request.Context())
	reply(c, res, st)
}

func (r *Routers) SubmitLegacyRegistration(c *ginext.Context) {
	var req dto.RegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid request body")
		return
	}
	resp, res := r.Legacy.Submit(c.Request.Context(), req)
	replyCreated(c, res, resp)
}

func (r *Routers) ListLegacyRegistrations(c *ginext.Context) {
	if wantsCSV(c) {
		body, name, res := r.Legacy.ExportCSV(c.Request.Context(), registrationFilter(c))
		replyCSV(c, res, body, name)
		return
	}
	regs, res := r.Legacy.List(c.Request.Context(), registrationFilter(c))
	reply(c, res, regs)
}

func (r *Routers) ApproveLegacyRegistration(c *ginext.Context) {
	if id, ok := idParam(c, "id"); ok {
		reply(c, r.Legacy.Approve(c.Request.Context(), id), nil)
	}
}

func (r *Routers) GetSettings(c *ginext.Context) {
	st, res := r.Legacy.Settings(c.Request.Context())
	reply(c, res, st)
}

func (r *Routers) UpdateSettings(c *ginext.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	st, res := r.Legacy.UpdateSettings(c.Request.Context(), req)
	reply(c, res, st)
}
