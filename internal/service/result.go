package service

import (
	"strings"

	"regdesk/internal/dto"
)

// Result is what every store-facing operation hands back instead of an error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func fail(code, message string) Result {
	return Result{Success: false, Message: message, Code: code}
}

func internal(message string) Result {
	return fail(dto.ServiceUnavailable, message)
}

func invalid(err error) Result {
	return fail(dto.FieldIncorrect, err.Error())
}

// NormalizeSlug trims, lower-cases and joins whitespace runs with a hyphen.
func NormalizeSlug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
