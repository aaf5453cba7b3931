package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestClassify(t *testing.T) {
	plain := errors.New("connection reset")
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate slug", &pq.Error{Code: "23505", Constraint: "campaigns_slug_key"}, ErrDuplicateSlug},
		{"duplicate email", &pq.Error{Code: "23505", Constraint: "unique_email_per_campaign"}, ErrDuplicateRegistration},
		{"wrapped duplicate email", fmt.Errorf("exec: %w", &pq.Error{Code: "23505", Constraint: "unique_email_per_campaign"}), ErrDuplicateRegistration},
		{"missing campaign", &pq.Error{Code: "23503", Constraint: "campaign_registrations_campaign_id_fkey"}, ErrCampaignNotFound},
		{"other unique", &pq.Error{Code: "23505", Constraint: "admin_users_email_key"}, nil},
		{"plain", plain, plain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.err, "op")
			if tc.want == nil {
				if errors.Is(got, ErrDuplicateSlug) || errors.Is(got, ErrDuplicateRegistration) {
					t.Fatalf("classify() = %v, want a generic error", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"ada":     "ada",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRepositoryRejectsNilDB(t *testing.T) {
	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("NewRepository(nil) error = nil, want error")
	}
}
