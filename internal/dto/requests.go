package dto

type CreateCampaignRequest struct {
	Slug                 string  `json:"slug" form:"slug" validate:"required,max=100,slug"`
	Title                string  `json:"title" form:"title" validate:"required,max=255"`
	Subtitle             string  `json:"subtitle" form:"subtitle" validate:"max=255"`
	Description          string  `json:"description" form:"description"`
	StartDate            string  `json:"start_date" form:"start_date" validate:"required,date"`
	EndDate              string  `json:"end_date" form:"end_date" validate:"required,date"`
	Location             string  `json:"location" form:"location" validate:"required,max=255"`
	VenueDetails         string  `json:"venue_details" form:"venue_details"`
	RegistrationFee      float64 `json:"registration_fee" form:"registration_fee" validate:"gte=0"`
	RegistrationDeadline string  `json:"registration_deadline" form:"registration_deadline" validate:"omitempty,date"`
	TargetParticipants   *int    `json:"target_participants" form:"target_participants" validate:"omitempty,gt=0"`
	BannerImageURL       string  `json:"banner_image_url" form:"banner_image_url" validate:"omitempty,url"`
	LogoImageURL         string  `json:"logo_image_url" form:"logo_image_url" validate:"omitempty,url"`
	ContactPhone         string  `json:"contact_phone" form:"contact_phone" validate:"omitempty,phone"`
	ContactEmail         string  `json:"contact_email" form:"contact_email" validate:"omitempty,email,max=255"`
	PaymentAccountName   string  `json:"payment_account_name" form:"payment_account_name" validate:"max=255"`
	PaymentAccountNumber string  `json:"payment_account_number" form:"payment_account_number" validate:"max=50"`
	PaymentBank          string  `json:"payment_bank" form:"payment_bank" validate:"max=100"`
	PaymentInstructions  string  `json:"payment_instructions" form:"payment_instructions"`
	SocialFacebook       string  `json:"social_facebook" form:"social_facebook" validate:"max=255"`
	SocialTwitter        string  `json:"social_twitter" form:"social_twitter" validate:"max=255"`
	SocialInstagram      string  `json:"social_instagram" form:"social_instagram" validate:"max=255"`
	SocialYoutube        string  `json:"social_youtube" form:"social_youtube" validate:"max=255"`
}

// UpdateCampaignRequest leaves a field untouched when it is absent or empty.
type UpdateCampaignRequest struct {
	Title                *string  `json:"title" validate:"omitempty,max=255"`
	Subtitle             *string  `json:"subtitle" validate:"omitempty,max=255"`
	Description          *string  `json:"description"`
	StartDate            *string  `json:"start_date" validate:"omitempty,date"`
	EndDate              *string  `json:"end_date" validate:"omitempty,date"`
	Location             *string  `json:"location" validate:"omitempty,max=255"`
	VenueDetails         *string  `json:"venue_details"`
	RegistrationFee      *float64 `json:"registration_fee" validate:"omitempty,gte=0"`
	RegistrationDeadline *string  `json:"registration_deadline" validate:"omitempty,date"`
	TargetParticipants   *int     `json:"target_participants" validate:"omitempty,gt=0"`
	BannerImageURL       *string  `json:"banner_image_url" validate:"omitempty,url"`
	LogoImageURL         *string  `json:"logo_image_url" validate:"omitempty,url"`
	ContactPhone         *string  `json:"contact_phone" validate:"omitempty,phone"`
	ContactEmail         *string  `json:"contact_email" validate:"omitempty,email,max=255"`
	PaymentAccountName   *string  `json:"payment_account_name" validate:"omitempty,max=255"`
	PaymentAccountNumber *string  `json:"payment_account_number" validate:"omitempty,max=50"`
	PaymentBank          *string  `json:"payment_bank" validate:"omitempty,max=100"`
	PaymentInstructions  *string  `json:"payment_instructions"`
	SocialFacebook       *string  `json:"social_facebook" validate:"omitempty,max=255"`
	SocialTwitter        *string  `json:"social_twitter" validate:"omitempty,max=255"`
	SocialInstagram      *string  `json:"social_instagram" validate:"omitempty,max=255"`
	SocialYoutube        *string  `json:"social_youtube" validate:"omitempty,max=255"`
}

type RegistrationRequest struct {
	FirstName          string `json:"first_name" form:"first_name" validate:"required,max=100"`
	MiddleName         string `json:"middle_name" form:"middle_name" validate:"max=100"`
	LastName           string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Email              string `json:"email" form:"email" validate:"required,email,max=255"`
	Phone              string `json:"phone" form:"phone" validate:"required,phone"`
	AltPhone           string `json:"alt_phone" form:"alt_phone" validate:"omitempty,phone"`
	Gender             string `json:"gender" form:"gender" validate:"required,max=10"`
	DOB                string `json:"dob" form:"dob" validate:"required,date"`
	MaritalStatus      string `json:"marital_status" form:"marital_status" validate:"max=20"`
	City               string `json:"city" form:"city" validate:"max=100"`
	Address            string `json:"address" form:"address"`
	Institute          string `json:"institute" form:"institute" validate:"max=255"`
	ProfessionalStatus string `json:"professional_status" form:"professional_status" validate:"max=100"`
	Workplace          string `json:"workplace" form:"workplace" validate:"max=255"`
	Attended           string `json:"attended" form:"attended"`
	Expectations       string `json:"expectations" form:"expectations"`
	HearAbout          string `json:"hear_about" form:"hear_about"`
}

type PaymentRequest struct {
	Status    string `json:"status" validate:"required,oneof=unpaid paid refunded"`
	Reference string `json:"reference" validate:"max=100"`
}

type ApproveRequest struct {
	Notify bool `json:"notify"`
}

type BulkApproveRequest struct {
	IDs    []int64 `json:"ids" validate:"required,min=1"`
	Notify bool    `json:"notify"`
}

type ToggleRegistrationRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type SettingsRequest struct {
	IsOpen      *bool  `json:"is_open" validate:"required"`
	CloseReason string `json:"close_reason" validate:"max=1000"`
}

type ImageRequest struct {
	ImageURL  string `json:"image_url" validate:"required,url"`
	ImageType string `json:"image_type" validate:"omitempty,imagetype"`
	AltText   string `json:"alt_text" validate:"max=255"`
}

type DeleteUploadRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type SubmitResponse struct {
	RegistrationID int64 `json:"registration_id"`
	EmailSent      bool  `json:"email_sent"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type BulkResponse struct {
	Updated int64 `json:"updated"`
	Emailed int   `json:"emailed"`
}

type QueuedResponse struct {
	Queued int `json:"queued"`
}

type AdminResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// ReminderJob is the queue payload for one reminder email.
type ReminderJob struct {
	RegistrationID int64 `json:"registration_id"`
	CampaignID     int64 `json:"campaign_id"`
}
