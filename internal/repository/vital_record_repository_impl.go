package repository

import (
	"context"

	"personal-health-record/internal/domain/entity"
	domainRepo "personal-health-record/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type vitalRecordRepository struct{}

func NewVitalRecordRepository() domainRepo.VitalRecordRepository {
	return &vitalRecordRepository{}
}

func (r *vitalRecordRepository) Create(ctx context.Context, db *gorm.DB, record *entity.VitalRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *vitalRecordRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.VitalRecord, error) {
	var records []entity.VitalRecord
	query := db.WithContext(ctx).Where("user_id = ?", userID).Order("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
