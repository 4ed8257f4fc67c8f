package usecase

import (
	"context"

	"personal-health-record/internal/converter"
	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultActivityLimit = 50

type ActivityUsecase interface {
	ListActivity(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error)
}

type activityUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewActivityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) ActivityUsecase {
	return &activityUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *activityUsecase) ListActivity(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	logs, err := u.auditLogRepo.FindByUserID(ctx, u.db, userID, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
