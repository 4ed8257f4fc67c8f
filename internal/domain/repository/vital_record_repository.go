package repository

import (
	"context"

	"personal-health-record/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VitalRecordRepository interface {
	Create(ctx context.Context, db *gorm.DB, record *entity.VitalRecord) error
	// FindByUserID returns newest first. limit <= 0 means no limit.
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.VitalRecord, error)
}
