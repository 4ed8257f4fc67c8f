package repository

import (
	"context"

	"personal-health-record/internal/domain/entity"

	"gorm.io/gorm"
)

type StorageReconciliationRepository interface {
	Create(ctx context.Context, db *gorm.DB, item *entity.StorageReconciliation) error
	FindPending(ctx context.Context, db *gorm.DB, limit int) ([]entity.StorageReconciliation, error)
	MarkResolved(ctx context.Context, db *gorm.DB, id int64) error
	IncrementAttempts(ctx context.Context, db *gorm.DB, id int64, reason string) error
}
