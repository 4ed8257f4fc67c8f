package converter

import (
	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/entity"

	"github.com/google/uuid"
)

func VitalRequestToEntity(userID uuid.UUID, req *dto.VitalRequest) *entity.VitalRecord {
	return &entity.VitalRecord{
		UserID:                 userID,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		BloodSugar:             req.BloodSugar,
		HeartRate:              req.HeartRate,
	}
}

func VitalToResponse(record *entity.VitalRecord) dto.VitalResponse {
	return dto.VitalResponse{
		ID:                     record.ID,
		BloodPressureSystolic:  record.BloodPressureSystolic,
		BloodPressureDiastolic: record.BloodPressureDiastolic,
		BloodSugar:             record.BloodSugar,
		HeartRate:              record.HeartRate,
		RecordedAt:             record.RecordedAt,
	}
}

func VitalsToResponses(records []entity.VitalRecord) []dto.VitalResponse {
	responses := make([]dto.VitalResponse, len(records))
	for i := range records {
		responses[i] = VitalToResponse(&records[i])
	}
	return responses
}
