package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"regdesk/cmd/middleware"
	"regdesk/internal/dto"
	"regdesk/internal/routing"
	"regdesk/internal/service"
)

type Routers struct {
	Campaigns     *service.Campaigns
	Registrations *service.Registrations
	Auth          *service.Auth
	Legacy        *service.Legacy
	Uploads       *service.Uploads

	Rule           routing.Rule
	GinMode        string
	CookieSecure   bool
	MaxUploadBytes int64
	Log            *zerolog.Logger
}

func NewRouters(r *Routers) *ginext.Engine {
	if r.MaxUploadBytes <= 0 {
		r.MaxUploadBytes = service.MaxUploadSize
	}

	app := ginext.New(r.GinMode)
	app.Use(ginext.Recovery())
	app.Use(middleware.SubdomainRewrite(r.Rule, app))
	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	app.Use(middleware.AdminCookieGate())

	app.GET("/healthz", func(c *ginext.Context) { c.JSON(http.StatusOK, ginext.H{"status": "ok"}) })

	app.GET("/", r.ListPublishedCampaigns)
	app.GET("/campaigns/:slug", r.GetPublicCampaign)
	app.POST("/campaigns/:slug/register", r.SubmitRegistration)
	app.GET("/registration-status", r.RegistrationStatus)
	app.POST("/register", r.SubmitLegacyRegistration)

	app.GET("/admin/login", r.LoginPage)
	app.POST("/admin/login", r.Login)
	app.POST("/admin/logout", r.Logout)

	admin := app.Group("/admin", middleware.RequireAdmin(r.Auth))
	admin.GET("/me", r.Me)

	admin.GET("/campaigns", r.ListCampaigns)
	admin.POST("/campaigns", r.CreateCampaign)
	admin.GET("/campaigns/:id", r.GetCampaign)
	admin.PATCH("/campaigns/:id", r.UpdateCampaign)
	admin.DELETE("/campaigns/:id", r.DeleteCampaign)
	admin.POST("/campaigns/:id/publish", r.PublishCampaign)
	admin.POST("/campaigns/:id/close", r.CloseCampaign)
	admin.POST("/campaigns/:id/archive", r.ArchiveCampaign)
	admin.PUT("/campaigns/:id/registration", r.ToggleRegistration)
	admin.GET("/campaigns/:id/registrations", r.ListRegistrations)
	admin.GET("/campaigns/:id/stats", r.CampaignStats)
	admin.POST("/campaigns/:id/reminders", r.QueueReminders)
	admin.GET("/campaigns/:id/images", r.ListImages)
	admin.POST("/campaigns/:id/images", r.AddImage)
	admin.DELETE("/campaigns/:id/images/:imageId", r.DeleteImage)

	admin.POST("/registrations/approve", r.BulkApprove)
	admin.POST("/registrations/:id/approve", r.ApproveRegistration)
	admin.POST("/registrations/:id/reject", r.RejectRegistration)
	admin.PUT("/registrations/:id/payment", r.SetPayment)
	admin.POST("/registrations/:id/emails/:kind", r.SendEmail)
	admin.GET("/registrations/:id/emails", r.EmailHistory)

	admin.GET("/full-details", r.ListLegacyRegistrations)
	admin.POST("/full-details/:id/approve", r.ApproveLegacyRegistration)
	admin.GET("/settings/registration", r.GetSettings)
	admin.PUT("/settings/registration", r.UpdateSettings)

	uploads := app.Group("/api", middleware.RequireAdmin(r.Auth))
	uploads.POST("/upload", r.Upload)
	uploads.DELETE("/upload", r.DeleteUpload)

	return app
}

// reply writes res with data on success and the mapped error status otherwise.
func reply(c *ginext.Context, res service.Result, data any) {
	if !res.Success {
		dto.ErrorResponse(c, res.Code, res.Message)
		return
	}
	dto.SuccessResponse(c, res.Message, data)
}

func replyCreated(c *ginext.Context, res service.Result, data any) {
	if !res.Success {
		dto.ErrorResponse(c, res.Code, res.Message)
		return
	}
	dto.SuccessCreatedResponse(c, res.Message, data)
}

func replyCSV(c *ginext.Context, res service.Result, body []byte, filename string) {
	if !res.Success {
		dto.ErrorResponse(c, res.Code, res.Message)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
