package repository

import (
	"context"
	"errors"

	"personal-health-record/internal/domain/entity"
	domainRepo "personal-health-record/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalDocumentRepository struct{}

func NewMedicalDocumentRepository() domainRepo.MedicalDocumentRepository {
	return &medicalDocumentRepository{}
}

func (r *medicalDocumentRepository) Create(ctx context.Context, db *gorm.DB, document *entity.MedicalDocument) error {
	return db.WithContext(ctx).Create(document).Error
}

func (r *medicalDocumentRepository) FindByID(ctx context.Context, db *gorm.DB, userID, id uuid.UUID) (*entity.MedicalDocument, error) {
	var document entity.MedicalDocument
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

// FindByUserID returns the owner's documents, newest upload first.
func (r *medicalDocumentRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, filter *entity.DocumentFilter) ([]entity.MedicalDocument, error) {
	var documents []entity.MedicalDocument
	query := db.WithContext(ctx).Where("user_id = ?", userID)

	if filter != nil && filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	err := query.Order("uploaded_at DESC").Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *medicalDocumentRepository) CountByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.MedicalDocument{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *medicalDocumentRepository) DistinctCategories(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]string, error) {
	var categories []string
	err := db.WithContext(ctx).
		Model(&entity.MedicalDocument{}).
		Where("user_id = ?", userID).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *medicalDocumentRepository) Delete(ctx context.Context, db *gorm.DB, userID, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.MedicalDocument{})
	return result.RowsAffected, result.Error
}
