package validator

import (
	"context"
	"strings"
	"testing"
)

type sample struct {
	Slug  string `validate:"required,slug"`
	Date  string `validate:"omitempty,date"`
	Phone string `validate:"omitempty,phone"`
	Email string `validate:"omitempty,email"`
	Kind  string `validate:"omitempty,imagetype"`
	Pay   string `validate:"omitempty,oneof=unpaid paid refunded"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{"valid", sample{Slug: "youth-summit-2026", Date: "2026-11-01", Phone: "+234 801 234 5678", Email: "a@b.co", Kind: "banner", Pay: "paid"}, ""},
		{"missing slug", sample{}, ErrFieldRequired},
		{"uppercase slug", sample{Slug: "Summit"}, ErrInvalidSlug},
		{"double hyphen", sample{Slug: "a--b"}, ErrInvalidSlug},
		{"bad date", sample{Slug: "a", Date: "2026-13-01"}, ErrInvalidDate},
		{"bad phone", sample{Slug: "a", Phone: "call me"}, ErrInvalidPhone},
		{"bad email", sample{Slug: "a", Email: "nope"}, ErrInvalidEmail},
		{"bad image type", sample{Slug: "a", Kind: "poster"}, ErrInvalidChoice},
		{"bad payment", sample{Slug: "a", Pay: "pending"}, ErrInvalidChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(context.Background(), tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want prefix %q", err, tt.wantErr)
			}
		})
	}
}
