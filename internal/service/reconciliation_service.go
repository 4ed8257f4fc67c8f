package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"personal-health-record/internal/domain/entity"
	"personal-health-record/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	reconcileBatchSize = 50
	reconcileTimeout   = 30 * time.Second
)

// ReconciliationService finishes document operations that stopped halfway
// between object storage and the metadata table.
type ReconciliationService struct {
	db        *gorm.DB
	log       *logrus.Logger
	reconRepo repository.StorageReconciliationRepository
	docRepo   repository.MedicalDocumentRepository
	transfer  FileTransferService
	interval  time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

func NewReconciliationService(
	db *gorm.DB,
	log *logrus.Logger,
	reconRepo repository.StorageReconciliationRepository,
	docRepo repository.MedicalDocumentRepository,
	transfer FileTransferService,
	interval time.Duration,
) *ReconciliationService {
	return &ReconciliationService{
		db:        db,
		log:       log,
		reconRepo: reconRepo,
		docRepo:   docRepo,
		transfer:  transfer,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the background sweeper. Calling it again is a no-op.
func (s *ReconciliationService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.loop()
	s.log.Infof("Reconciliation sweeper started (interval %v)", s.interval)
}

// Stop waits for the sweeper to exit. Safe to call multiple times.
func (s *ReconciliationService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("Reconciliation sweeper stopped")
	}
}

func (s *ReconciliationService) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Warnf("Failed to sweep reconciliation items: %+v", err)
			}
			cancel()
		}
	}
}

// Sweep retries one batch of pending items and returns how many were resolved.
func (s *ReconciliationService) Sweep(ctx context.Context) (int, error) {
	items, err := s.reconRepo.FindPending(ctx, s.db, reconcileBatchSize)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for i := range items {
		item := &items[i]

		if err := s.resolve(ctx, item); err != nil {
			s.log.Warnf("Failed to reconcile %s %s (attempt %d): %+v", item.Kind, item.Path, item.Attempts+1, err)
			if err := s.reconRepo.IncrementAttempts(ctx, s.db, item.ID, err.Error()); err != nil {
				s.log.Warnf("Failed to record reconciliation attempt %d: %+v", item.ID, err)
			}
			continue
		}

		if err := s.reconRepo.MarkResolved(ctx, s.db, item.ID); err != nil {
			s.log.Warnf("Failed to mark reconciliation %d resolved: %+v", item.ID, err)
			continue
		}
		resolved++
	}

	if resolved > 0 {
		s.log.Infof("Reconciled %d of %d pending storage items", resolved, len(items))
	}
	return resolved, nil
}

func (s *ReconciliationService) resolve(ctx context.Context, item *entity.StorageReconciliation) error {
	switch item.Kind {
	case entity.ReconcileOrphanedObject:
		return s.transfer.Remove(ctx, item.Path)
	case entity.ReconcileDanglingRow:
		if item.DocumentID == nil {
			return nil
		}
		_, err := s.docRepo.Delete(ctx, s.db, item.UserID, *item.DocumentID)
		return err
	default:
		return errors.New("unknown reconciliation kind " + item.Kind)
	}
}
