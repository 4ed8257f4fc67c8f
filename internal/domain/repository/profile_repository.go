package repository

import (
	"context"

	"personal-health-record/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	// CreateIfAbsent inserts the profile unless one already exists for its ID.
	// created is false when another writer got there first.
	CreateIfAbsent(ctx context.Context, db *gorm.DB, profile *entity.Profile) (created bool, err error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Profile, error)
	Upsert(ctx context.Context, db *gorm.DB, profile *entity.Profile) error
}
