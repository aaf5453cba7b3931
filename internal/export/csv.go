package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"regdesk/internal/legacy"
	"regdesk/internal/model"
)

var registrationHeader = []string{
	"ID", "First Name", "Middle Name", "Last Name", "Email", "Phone", "Gender", "Date of Birth",
	"Institution", "Professional Status", "Workplace", "Attended Before", "Expectations",
	"Heard About", "Status", "Payment", "Payment Reference", "Registration Date",
}

var legacyHeader = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Alt Phone", "Gender", "Date of Birth",
	"Marital Status", "City", "Address", "Institution", "Professional Status", "Workplace",
	"Attended Before", "Expectations", "Heard About", "Status", "Registration Date",
}

// WriteRegistrations writes the header row, then one row per registration in order.
func WriteRegistrations(w io.Writer, regs []model.CampaignRegistration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(registrationHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range regs {
		row := []string{
			strconv.FormatInt(r.ID, 10), r.FirstName, r.MiddleName, r.LastName, r.Email, r.Phone,
			r.Gender, formatDate(r.DOB), r.Institute, r.ProfessionalStatus, r.Workplace,
			yesNo(r.Attended), r.Expectations, r.HearAbout, string(r.Status), string(r.PaymentStatus),
			r.PaymentReference, formatDate(r.CreatedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteLegacyRegistrations(w io.Writer, regs []legacy.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(legacyHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range regs {
		row := []string{
			strconv.FormatInt(r.ID, 10), r.FirstName, r.LastName, r.Email, r.Phone, r.AltPhone,
			r.Gender, formatDate(r.DOB), r.MaritalStatus, r.City, r.Address, r.Institute,
			r.ProfessionalStatus, r.Workplace, yesNo(r.Attended), r.Expectations, r.HearAbout,
			r.Status, formatDate(r.CreatedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds the attachment name, e.g. summit-2025-registrations-2025-10-01.csv.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-registrations-%s.csv", prefix, now.Format("2006-01-02"))
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "Yes"
	}
	return "No"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
