package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateDocumentRequest carries the multipart form fields next to the file.
type CreateDocumentRequest struct {
	Title    string `json:"title" validate:"max=255"`
	Category string `json:"category" validate:"required"`
	Notes    string `json:"notes"`
	FileName string `json:"file_name"`
	Data     []byte `json:"-"`
}

type DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	DocumentURL string    `json:"document_url"`
	Path        string    `json:"document_path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Notes       string    `json:"notes,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type SignedURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

type DocumentDownload struct {
	FileName    string
	ContentType string
	Data        []byte
}
