package legacy

import "time"

type AdminUser struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Name         string    `gorm:"column:name;size:255" json:"name,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AdminUser) TableName() string { return "admin_users" }

// Registration is a row of the pre-campaign registrations table.
type Registration struct {
	ID                 int64     `gorm:"column:id;primaryKey" json:"id"`
	CampaignID         *int64    `gorm:"column:campaign_id" json:"campaign_id,omitempty"`
	FirstName          string    `gorm:"column:first_name" json:"first_name"`
	LastName           string    `gorm:"column:last_name" json:"last_name"`
	Email              string    `gorm:"column:email" json:"email"`
	Phone              string    `gorm:"column:phone" json:"phone"`
	AltPhone           string    `gorm:"column:alt_phone" json:"alt_phone,omitempty"`
	Gender             string    `gorm:"column:gender" json:"gender"`
	DOB                time.Time `gorm:"column:dob;type:date" json:"dob"`
	MaritalStatus      string    `gorm:"column:marital_status" json:"marital_status,omitempty"`
	City               string    `gorm:"column:city" json:"city,omitempty"`
	Address            string    `gorm:"column:address" json:"address,omitempty"`
	Institute          string    `gorm:"column:institute" json:"institute,omitempty"`
	ProfessionalStatus string    `gorm:"column:professional_status" json:"professional_status,omitempty"`
	Workplace          string    `gorm:"column:workplace" json:"workplace,omitempty"`
	Attended           *bool     `gorm:"column:attended" json:"attended"`
	Expectations       string    `gorm:"column:expectations" json:"expectations,omitempty"`
	HearAbout          string    `gorm:"column:hear_about" json:"hear_about,omitempty"`
	Status             string    `gorm:"column:status" json:"status"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Registration) TableName() string { return "registrations" }

// Settings is the singleton row (id = 1) gating legacy submissions.
type Settings struct {
	ID          int       `gorm:"column:id;primaryKey" json:"-"`
	IsOpen      bool      `gorm:"column:is_open" json:"is_open"`
	CloseReason string    `gorm:"column:close_reason" json:"close_reason,omitempty"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Settings) TableName() string { return "registration_settings" }

const settingsRowID = 1
