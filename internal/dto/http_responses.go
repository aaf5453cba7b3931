package dto

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	Unauthorized      = "UNAUTHORIZED"
	AuthNotConfigured = "AUTH_NOT_CONFIGURED"
	AdminDuplicate    = "ADMIN_DUPLICATE"

	CampaignNotFound      = "CAMPAIGN_NOT_FOUND"
	CampaignSlugDuplicate = "CAMPAIGN_SLUG_DUPLICATE"
	CampaignNotDraft      = "CAMPAIGN_NOT_DRAFT"
	CampaignNotPublished  = "CAMPAIGN_NOT_PUBLISHED"
	CampaignArchived      = "CAMPAIGN_ARCHIVED"
	RegistrationNotFound  = "REGISTRATION_NOT_FOUND"
	RegistrationDuplicate = "REGISTRATION_DUPLICATE"
	RegistrationClosed    = "REGISTRATION_CLOSED"
	ImageNotFound         = "IMAGE_NOT_FOUND"
	EmailNotSent          = "EMAIL_NOT_SENT"
	UploadRejected        = "UPLOAD_REJECTED"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StatusFor maps a failure code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case FieldBadFormat, FieldIncorrect, UploadRejected:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case CampaignNotFound, RegistrationNotFound, ImageNotFound:
		return http.StatusNotFound
	case CampaignSlugDuplicate, CampaignNotDraft, CampaignNotPublished, CampaignArchived,
		RegistrationDuplicate, RegistrationClosed, AdminDuplicate:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func ErrorResponse(c *ginext.Context, code, message string) {
	c.JSON(StatusFor(code), Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: desc,
		Code:    code,
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: InternalError,
		Code:    ServiceUnavailable,
	})
}

func UnauthorizedError(c *ginext.Context, desc string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Success: false,
		Message: desc,
		Code:    Unauthorized,
	})
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func SuccessResponse(c *ginext.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}
