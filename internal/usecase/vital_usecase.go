package usecase

import (
	"context"
	"time"

	"personal-health-record/internal/converter"
	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/entity"
	"personal-health-record/internal/domain/repository"
	"personal-health-record/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type VitalUsecase interface {
	ListVitals(ctx context.Context, userID uuid.UUID, limit int) (*dto.VitalListResponse, error)
	RecordVital(ctx context.Context, userID uuid.UUID, req *dto.VitalRequest) (*dto.VitalResponse, error)
}

type vitalUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	vitalRepo    repository.VitalRecordRepository
	auditService service.AuditService
}

func NewVitalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	vitalRepo repository.VitalRecordRepository,
	auditService service.AuditService,
) VitalUsecase {
	return &vitalUsecase{
		db:           db,
		log:          log,
		vitalRepo:    vitalRepo,
		auditService: auditService,
	}
}

// ListVitals returns newest first. limit <= 0 returns everything.
func (u *vitalUsecase) ListVitals(ctx context.Context, userID uuid.UUID, limit int) (*dto.VitalListResponse, error) {
	records, err := u.vitalRepo.FindByUserID(ctx, u.db, userID, limit)
	if err != nil {
		u.log.Warnf("Failed to find vitals for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.VitalListResponse{
		Vitals: converter.VitalsToResponses(records),
		Total:  len(records),
	}, nil
}

func (u *vitalUsecase) RecordVital(ctx context.Context, userID uuid.UUID, req *dto.VitalRequest) (*dto.VitalResponse, error) {
	record := converter.VitalRequestToEntity(userID, req)

	if record.IsEmpty() {
		return nil, NewValidationError("reading", "Please enter at least one vital sign")
	}
	if fields := record.OutOfRangeFields(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	record.ID = uuid.New()
	record.RecordedAt = time.Now()

	if err := u.vitalRepo.Create(ctx, u.db, record); err != nil {
		u.log.Warnf("Failed to record vital: %+v", err)
		return nil, err
	}

	resp := converter.VitalToResponse(record)
	u.auditService.LogCreate(ctx, nil, userID, entity.AuditActionVitalRecord, "vital_record", record.ID.String(), resp)

	return &resp, nil
}
