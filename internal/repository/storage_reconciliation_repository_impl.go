package repository

import (
	"context"
	"time"

	"personal-health-record/internal/domain/entity"
	domainRepo "personal-health-record/internal/domain/repository"

	"gorm.io/gorm"
)

type storageReconciliationRepository struct{}

func NewStorageReconciliationRepository() domainRepo.StorageReconciliationRepository {
	return &storageReconciliationRepository{}
}

func (r *storageReconciliationRepository) Create(ctx context.Context, db *gorm.DB, item *entity.StorageReconciliation) error {
	return db.WithContext(ctx).Create(item).Error
}

// FindPending returns unresolved items, least attempted first and oldest first
// within that, so items that keep failing cannot starve newer ones.
func (r *storageReconciliationRepository) FindPending(ctx context.Context, db *gorm.DB, limit int) ([]entity.StorageReconciliation, error) {
	var items []entity.StorageReconciliation
	err := db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("attempts ASC, created_at ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *storageReconciliationRepository) MarkResolved(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).
		Model(&entity.StorageReconciliation{}).
		Where("id = ?", id).
		Update("resolved_at", time.Now()).Error
}

func (r *storageReconciliationRepository) IncrementAttempts(ctx context.Context, db *gorm.DB, id int64, reason string) error {
	return db.WithContext(ctx).
		Model(&entity.StorageReconciliation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts": gorm.Expr("attempts + 1"),
			"reason":   reason,
		}).Error
}
