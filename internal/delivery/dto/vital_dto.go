package dto

import (
	"time"

	"github.com/google/uuid"
)

// VitalRequest fields are optional; ranges are checked by the usecase.
type VitalRequest struct {
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic"`
	BloodSugar             *float64 `json:"blood_sugar"`
	HeartRate              *int     `json:"heart_rate"`
}

type VitalResponse struct {
	ID                     uuid.UUID `json:"id"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic,omitempty"`
	BloodSugar             *float64  `json:"blood_sugar,omitempty"`
	HeartRate              *int      `json:"heart_rate,omitempty"`
	RecordedAt             time.Time `json:"recorded_at"`
}

type VitalListResponse struct {
	Vitals []VitalResponse `json:"vitals"`
	Total  int             `json:"total"`
}
