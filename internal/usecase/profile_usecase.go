package usecase

import (
	"context"
	"errors"
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

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileUsecase interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest) (*dto.ProfileResponse, error)
}

type profileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	auditService service.AuditService
}

func NewProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	auditService service.AuditService,
) ProfileUsecase {
	return &profileUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		auditService: auditService,
	}
}

// EnsureProfile returns the caller's profile, creating the placeholder one on
// first access. Concurrent first calls are settled by a conditional insert:
// the loser re-reads the winner's row.
func (u *profileUsecase) EnsureProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	profile, err := u.profileRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, err
	}
	if profile != nil {
		return converter.ProfileToResponse(profile), nil
	}

	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile = entity.DefaultProfileFor(user, time.Now())
	created, err := u.profileRepo.CreateIfAbsent(ctx, u.db, profile)
	if err != nil {
		u.log.Warnf("Failed to create default profile: %+v", err)
		return nil, err
	}

	if created {
		u.auditService.LogCreate(ctx, nil, userID, entity.AuditActionProfileCreate, "profile", userID.String(), converter.ProfileToResponse(profile))
		return converter.ProfileToResponse(profile), nil
	}

	profile, err = u.profileRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to re-read profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	return converter.ProfileToResponse(profile), nil
}

// SaveProfile upserts every field of the caller's profile and stamps updated_at.
func (u *profileUsecase) SaveProfile(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := converter.ProfileRequestToEntity(userID, req)
	if err != nil {
		return nil, NewValidationError("date_of_birth", "date_of_birth must be a date in format YYYY-MM-DD")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	old, err := u.profileRepo.FindByID(ctx, tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, err
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if old != nil {
		profile.CreatedAt = old.CreatedAt
	}

	if err := u.profileRepo.Upsert(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to save profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	newValue := converter.ProfileToResponse(profile)
	if old == nil {
		u.auditService.LogCreate(ctx, nil, userID, entity.AuditActionProfileCreate, "profile", userID.String(), newValue)
	} else {
		u.auditService.LogUpdate(ctx, nil, userID, entity.AuditActionProfileUpdate, "profile", userID.String(), converter.ProfileToResponse(old), newValue)
	}

	return newValue, nil
}
