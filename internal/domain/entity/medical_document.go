package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalDocument is the metadata row for one stored object.
// DocumentPath and DocumentURL always refer to the same object.
type MedicalDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Category     string    `gorm:"type:varchar(50);not null;index" json:"category"`
	DocumentURL  string    `gorm:"type:text;not null" json:"document_url"`
	DocumentPath string    `gorm:"type:text;not null" json:"document_path"`
	ContentType  string    `gorm:"type:varchar(100)" json:"content_type"`
	Size         int64     `gorm:"not null;default:0" json:"size"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	UploadedAt   time.Time `gorm:"not null;index" json:"uploaded_at"`
}

func (MedicalDocument) TableName() string {
	return "medical_documents"
}

// Document categories offered for new uploads
const (
	CategoryPrescriptions = "Prescriptions"
	CategoryLabReports    = "Lab Reports"
	CategoryBills         = "Bills"
	CategoryOther         = "Other"
)

var DocumentCategories = []string{CategoryPrescriptions, CategoryLabReports, CategoryBills, CategoryOther}

// Content types accepted for upload
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

var AllowedDocumentTypes = []string{ContentTypePDF, ContentTypeJPEG, ContentTypePNG}

// DocumentFilter narrows a document listing. An empty Category means all.
type DocumentFilter struct {
	Category string
}
