package repository

import (
	"context"

	"personal-health-record/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalDocumentRepository interface {
	Create(ctx context.Context, db *gorm.DB, document *entity.MedicalDocument) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id uuid.UUID) (*entity.MedicalDocument, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, filter *entity.DocumentFilter) ([]entity.MedicalDocument, error)
	CountByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)
	DistinctCategories(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]string, error)
	Delete(ctx context.Context, db *gorm.DB, userID, id uuid.UUID) (int64, error)
}
