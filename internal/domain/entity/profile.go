package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile holds personal data for one identity. ID equals User.ID.
type Profile struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	FullName         string              `gorm:"type:varchar(255);not null" json:"full_name"`
	DateOfBirth      time.Time           `gorm:"type:date;not null" json:"date_of_birth"`
	Weight           decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"weight"`
	Height           decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"height"`
	BloodType        string              `gorm:"type:varchar(3)" json:"blood_type,omitempty"`
	NationalIDNumber string              `gorm:"type:char(12)" json:"national_id_number,omitempty"`
	PhoneNumber      string              `gorm:"type:varchar(20);not null" json:"phone_number"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DefaultDateOfBirth is the placeholder stored until the user completes profile setup.
var DefaultDateOfBirth = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultProfileFor builds the placeholder profile created on first access.
func DefaultProfileFor(user *User, now time.Time) *Profile {
	name := "User"
	if local, _, ok := strings.Cut(user.Email, "@"); ok && local != "" {
		name = local
	}

	return &Profile{
		ID:          user.ID,
		FullName:    name,
		DateOfBirth: DefaultDateOfBirth,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Blood types accepted by profile setup
var BloodTypes = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}
