package usecase

import (
	"context"

	"personal-health-record/internal/converter"
	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// RecentVitalsLimit is how many readings the dashboard shows.
const RecentVitalsLimit = 10

type DashboardUsecase interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	profileUsecase ProfileUsecase
	vitalRepo      repository.VitalRecordRepository
	documentRepo   repository.MedicalDocumentRepository
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileUsecase ProfileUsecase,
	vitalRepo repository.VitalRecordRepository,
	documentRepo repository.MedicalDocumentRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:             db,
		log:            log,
		profileUsecase: profileUsecase,
		vitalRepo:      vitalRepo,
		documentRepo:   documentRepo,
	}
}

func (u *dashboardUsecase) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := u.profileUsecase.EnsureProfile(gctx, userID)
		if err != nil {
			return err
		}
		resp.Profile = profile
		return nil
	})

	g.Go(func() error {
		records, err := u.vitalRepo.FindByUserID(gctx, u.db, userID, RecentVitalsLimit)
		if err != nil {
			return err
		}
		resp.RecentVitals = converter.VitalsToResponses(records)
		return nil
	})

	g.Go(func() error {
		count, err := u.documentRepo.CountByUserID(gctx, u.db, userID)
		if err != nil {
			return err
		}
		resp.DocumentCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load dashboard for user %s: %+v", userID, err)
		return nil, err
	}

	return resp, nil
}
