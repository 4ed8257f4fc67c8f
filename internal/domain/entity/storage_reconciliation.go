package entity

import (
	"time"

	"github.com/google/uuid"
)

// StorageReconciliation records a half-finished two-step document operation
// so the background sweeper can finish it later.
type StorageReconciliation struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind       string     `gorm:"type:varchar(32);not null;index" json:"kind"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	DocumentID *uuid.UUID `gorm:"type:uuid" json:"document_id,omitempty"`
	Path       string     `gorm:"type:text;not null" json:"path"`
	Reason     string     `gorm:"type:text" json:"reason,omitempty"`
	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	ResolvedAt *time.Time `gorm:"index" json:"resolved_at,omitempty"`
}

func (StorageReconciliation) TableName() string {
	return "storage_reconciliations"
}

const (
	// ReconcileOrphanedObject: object stored, metadata row never written.
	ReconcileOrphanedObject = "orphaned_object"
	// ReconcileDanglingRow: object removed, metadata row still present.
	ReconcileDanglingRow = "dangling_row"
)
