package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileRequest struct {
	FullName         string   `json:"full_name" validate:"required,max=255"`
	DateOfBirth      string   `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Weight           *float64 `json:"weight" validate:"omitempty,gte=0,lte=500"`
	Height           *float64 `json:"height" validate:"omitempty,gte=0,lte=300"`
	BloodType        string   `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- O+ O- AB+ AB-"`
	NationalIDNumber string   `json:"national_id_number" validate:"omitempty,len=12,numeric"`
	PhoneNumber      string   `json:"phone_number" validate:"required,phone"`
}

type ProfileResponse struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	DateOfBirth      string    `json:"date_of_birth"`
	Weight           *float64  `json:"weight,omitempty"`
	Height           *float64  `json:"height,omitempty"`
	BloodType        string    `json:"blood_type,omitempty"`
	NationalIDNumber string    `json:"national_id_number,omitempty"`
	PhoneNumber      string    `json:"phone_number"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
