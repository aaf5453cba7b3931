package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		"":                    http.StatusOK,
		FieldIncorrect:        http.StatusBadRequest,
		UploadRejected:        http.StatusBadRequest,
		Unauthorized:          http.StatusUnauthorized,
		CampaignNotFound:      http.StatusNotFound,
		RegistrationNotFound:  http.StatusNotFound,
		CampaignSlugDuplicate: http.StatusConflict,
		CampaignNotDraft:      http.StatusConflict,
		RegistrationClosed:    http.StatusConflict,
		ServiceUnavailable:    http.StatusInternalServerError,
		AuthNotConfigured:     http.StatusInternalServerError,
		EmailNotSent:          http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := StatusFor(code); got != want {
			t.Fatalf("StatusFor(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponse(c, RegistrationDuplicate, "This email has already been registered for this campaign.")

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Code != RegistrationDuplicate {
		t.Fatalf("response = %+v", resp)
	}
}
