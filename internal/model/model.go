package model

import (
	"strings"
	"time"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignPublished CampaignStatus = "published"
	CampaignClosed    CampaignStatus = "closed"
	CampaignArchived  CampaignStatus = "archived"
)

func (s CampaignStatus) AcceptsRegistrations() bool {
	return s == CampaignPublished
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type EmailKind string

const (
	EmailConfirmation EmailKind = "confirmation"
	EmailApproval     EmailKind = "approval"
	EmailReminder     EmailKind = "reminder"
)

func (k EmailKind) Valid() bool {
	switch k {
	case EmailConfirmation, EmailApproval, EmailReminder:
		return true
	}
	return false
}

type ImageType string

const (
	ImageBanner  ImageType = "banner"
	ImageLogo    ImageType = "logo"
	ImageGallery ImageType = "gallery"
)

func (t ImageType) Valid() bool {
	switch t {
	case ImageBanner, ImageLogo, ImageGallery:
		return true
	}
	return false
}

type Campaign struct {
	ID                   int64          `db:"id" json:"id"`
	Slug                 string         `db:"slug" json:"slug"`
	Title                string         `db:"title" json:"title"`
	Subtitle             string         `db:"subtitle" json:"subtitle,omitempty"`
	Description          string         `db:"description" json:"description,omitempty"`
	StartDate            time.Time      `db:"start_date" json:"start_date"`
	EndDate              time.Time      `db:"end_date" json:"end_date"`
	Location             string         `db:"location" json:"location"`
	VenueDetails         string         `db:"venue_details" json:"venue_details,omitempty"`
	RegistrationFee      float64        `db:"registration_fee" json:"registration_fee"`
	RegistrationDeadline *time.Time     `db:"registration_deadline" json:"registration_deadline,omitempty"`
	Status               CampaignStatus `db:"status" json:"status"`
	IsRegistrationOpen   bool           `db:"is_registration_open" json:"is_registration_open"`
	TargetParticipants   *int           `db:"target_participants" json:"target_participants,omitempty"`
	BannerImageURL       string         `db:"banner_image_url" json:"banner_image_url,omitempty"`
	LogoImageURL         string         `db:"logo_image_url" json:"logo_image_url,omitempty"`
	ContactPhone         string         `db:"contact_phone" json:"contact_phone,omitempty"`
	ContactEmail         string         `db:"contact_email" json:"contact_email,omitempty"`
	PaymentAccountName   string         `db:"payment_account_name" json:"payment_account_name,omitempty"`
	PaymentAccountNumber string         `db:"payment_account_number" json:"payment_account_number,omitempty"`
	PaymentBank          string         `db:"payment_bank" json:"payment_bank,omitempty"`
	PaymentInstructions  string         `db:"payment_instructions" json:"payment_instructions,omitempty"`
	SocialFacebook       string         `db:"social_facebook" json:"social_facebook,omitempty"`
	SocialTwitter        string         `db:"social_twitter" json:"social_twitter,omitempty"`
	SocialInstagram      string         `db:"social_instagram" json:"social_instagram,omitempty"`
	SocialYoutube        string         `db:"social_youtube" json:"social_youtube,omitempty"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
	PublishedAt          *time.Time     `db:"published_at" json:"published_at,omitempty"`
}

// IsAcceptingRegistrations is the gate applied to public submissions.
func (c *Campaign) IsAcceptingRegistrations() bool {
	return c.IsRegistrationOpen && c.Status.AcceptsRegistrations()
}

// Consistent reports whether the open flag agrees with the lifecycle status.
func (c *Campaign) Consistent() bool {
	return !c.IsRegistrationOpen || c.Status == CampaignPublished
}

// CampaignPatch carries a partial update. Nil fields keep their stored value.
type CampaignPatch struct {
	Title                *string
	Subtitle             *string
	Description          *string
	StartDate            *string
	EndDate              *string
	Location             *string
	VenueDetails         *string
	RegistrationFee      *float64
	RegistrationDeadline *string
	TargetParticipants   *int
	BannerImageURL       *string
	LogoImageURL         *string
	ContactPhone         *string
	ContactEmail         *string
	PaymentAccountName   *string
	PaymentAccountNumber *string
	PaymentBank          *string
	PaymentInstructions  *string
	SocialFacebook       *string
	SocialTwitter        *string
	SocialInstagram      *string
	SocialYoutube        *string
}

type CampaignRegistration struct {
	ID                 int64          `db:"id" json:"id"`
	CampaignID         int64          `db:"campaign_id" json:"campaign_id"`
	FirstName          string         `db:"first_name" json:"first_name"`
	MiddleName         string         `db:"middle_name" json:"middle_name,omitempty"`
	LastName           string         `db:"last_name" json:"last_name"`
	Email              string         `db:"email" json:"email"`
	Phone              string         `db:"phone" json:"phone"`
	AltPhone           string         `db:"alt_phone" json:"alt_phone,omitempty"`
	Gender             string         `db:"gender" json:"gender"`
	DOB                time.Time      `db:"dob" json:"dob"`
	MaritalStatus      string         `db:"marital_status" json:"marital_status,omitempty"`
	City               string         `db:"city" json:"city,omitempty"`
	Address            string         `db:"address" json:"address,omitempty"`
	Institute          string         `db:"institute" json:"institute,omitempty"`
	ProfessionalStatus string         `db:"professional_status" json:"professional_status,omitempty"`
	Workplace          string         `db:"workplace" json:"workplace,omitempty"`
	Attended           *bool          `db:"attended" json:"attended"`
	Expectations       string         `db:"expectations" json:"expectations,omitempty"`
	HearAbout          string         `db:"hear_about" json:"hear_about,omitempty"`
	Status             ApprovalStatus `db:"status" json:"status"`
	PaymentStatus      PaymentStatus  `db:"payment_status" json:"payment_status"`
	PaymentReference   string         `db:"payment_reference" json:"payment_reference,omitempty"`
	PaymentDate        *time.Time     `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

func (r *CampaignRegistration) FullName() string {
	parts := []string{r.FirstName, r.MiddleName, r.LastName}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// NewRegistration is the insert shape for a public submission. Dates are YYYY-MM-DD.
type NewRegistration struct {
	CampaignID         int64
	FirstName          string
	MiddleName         string
	LastName           string
	Email              string
	Phone              string
	AltPhone           string
	Gender             string
	DOB                string
	MaritalStatus      string
	City               string
	Address            string
	Institute          string
	ProfessionalStatus string
	Workplace          string
	Attended           *bool
	Expectations       string
	HearAbout          string
}

type RegistrationFilter struct {
	Search        string
	Status        ApprovalStatus
	PaymentStatus PaymentStatus
}

type RegistrationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Paid     int `json:"paid"`
	Unpaid   int `json:"unpaid"`
	Refunded int `json:"refunded"`
}

type CampaignImage struct {
	ID           int64     `db:"id" json:"id"`
	CampaignID   int64     `db:"campaign_id" json:"campaign_id"`
	ImageURL     string    `db:"image_url" json:"image_url"`
	ImageType    ImageType `db:"image_type" json:"image_type"`
	AltText      string    `db:"alt_text" json:"alt_text,omitempty"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type EmailTracking struct {
	ID             int64     `db:"id" json:"id"`
	RegistrationID int64     `db:"registration_id" json:"registration_id"`
	EmailType      EmailKind `db:"email_type" json:"email_type"`
	SentAt         time.Time `db:"sent_at" json:"sent_at"`
}

func ParseAttended(v string) *bool {
	switch v {
	case "yes":
		t := true
		return &t
	case "no":
		f := false
		return &f
	}
	return nil
}
