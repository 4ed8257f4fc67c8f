package entity

import (
	"time"

	"github.com/google/uuid"
)

// VitalRecord is one measurement session. Every reading field is optional.
type VitalRecord struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID                 uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	BloodPressureSystolic  *int      `gorm:"type:smallint" json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int      `gorm:"type:smallint" json:"blood_pressure_diastolic,omitempty"`
	BloodSugar             *float64  `gorm:"type:numeric(5,1)" json:"blood_sugar,omitempty"`
	HeartRate              *int      `gorm:"type:smallint" json:"heart_rate,omitempty"`
	RecordedAt             time.Time `gorm:"not null;index" json:"recorded_at"`
}

func (VitalRecord) TableName() string {
	return "vital_records"
}
