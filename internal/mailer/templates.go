package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"regdesk/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const DefaultCurrencySymbol = "₦"

// TemplateData is the view model shared by every email kind.
type TemplateData struct {
	FirstName      string
	FullName       string
	Email          string
	RegistrationID int64
	RegisteredOn   string
	CampaignTitle  string
	Dates          string
	Venue          string
	Fee            string
	AccountName    string
	AccountNumber  string
	Bank           string
	Instructions   string
	Deadline       string
	ContactPhone   string
	ContactEmail   string
}

func NewTemplateData(reg *model.CampaignRegistration, c *model.Campaign, currency string) TemplateData {
	if currency == "" {
		currency = DefaultCurrencySymbol
	}
	venue := c.Location
	if c.VenueDetails != "" {
		venue = c.Location + ", " + c.VenueDetails
	}
	d := TemplateData{
		FirstName:      reg.FirstName,
		FullName:       reg.FullName(),
		Email:          reg.Email,
		RegistrationID: reg.ID,
		CampaignTitle:  c.Title,
		Dates:          FormatDateRange(c.StartDate, c.EndDate),
		Venue:          venue,
		Fee:            FormatFee(currency, c.RegistrationFee),
		AccountName:    c.PaymentAccountName,
		AccountNumber:  c.PaymentAccountNumber,
		Bank:           c.PaymentBank,
		Instructions:   c.PaymentInstructions,
		ContactPhone:   c.ContactPhone,
		ContactEmail:   c.ContactEmail,
	}
	if !reg.CreatedAt.IsZero() {
		d.RegisteredOn = reg.CreatedAt.Format("January 2, 2006")
	} else {
		d.RegisteredOn = time.Now().Format("January 2, 2006")
	}
	if c.RegistrationDeadline != nil {
		d.Deadline = c.RegistrationDeadline.Format("January 2, 2006")
	}
	return d
}

func Subject(kind model.EmailKind, campaignTitle string) string {
	switch kind {
	case model.EmailConfirmation:
		return "Registration Confirmation - " + campaignTitle
	case model.EmailApproval:
		return "Registration Approved - " + campaignTitle
	case model.EmailReminder:
		return "Registration Reminder - " + campaignTitle
	}
	return campaignTitle
}

// Render returns the subject and HTML body for kind.
func Render(kind model.EmailKind, data TemplateData) (string, string, error) {
	if !kind.Valid() {
		return "", "", fmt.Errorf("unknown email kind %q", kind)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(kind), data); err != nil {
		return "", "", fmt.Errorf("render %s email: %w", kind, err)
	}
	return Subject(kind, data.CampaignTitle), buf.String(), nil
}

// FormatFee groups thousands the way the English locale does: ₦50,000 or ₦1,250.50.
func FormatFee(symbol string, fee float64) string {
	p := message.NewPrinter(language.English)
	if fee == math.Trunc(fee) {
		return symbol + p.Sprintf("%d", int64(fee))
	}
	return symbol + p.Sprintf("%.2f", fee)
}

func FormatDateRange(start, end time.Time) string {
	const full = "January 2, 2006"
	switch {
	case start.IsZero():
		return ""
	case end.IsZero() || sameDay(start, end):
		return start.Format(full)
	case start.Year() == end.Year() && start.Month() == end.Month():
		return fmt.Sprintf("%s %d-%d, %d", start.Month(), start.Day(), end.Day(), start.Year())
	case start.Year() == end.Year():
		return fmt.Sprintf("%s - %s", start.Format("January 2"), end.Format(full))
	}
	return fmt.Sprintf("%s - %s", start.Format(full), end.Format(full))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
