package converter

import (
	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/entity"
)

func DocumentToResponse(document *entity.MedicalDocument) *dto.DocumentResponse {
	if document == nil {
		return nil
	}

	return &dto.DocumentResponse{
		ID:          document.ID,
		Title:       document.Title,
		Category:    document.Category,
		DocumentURL: document.DocumentURL,
		Path:        document.DocumentPath,
		ContentType: document.ContentType,
		Size:        document.Size,
		Notes:       document.Notes,
		UploadedAt:  document.UploadedAt,
	}
}

func DocumentsToResponses(documents []entity.MedicalDocument) []dto.DocumentResponse {
	responses := make([]dto.DocumentResponse, len(documents))
	for i := range documents {
		responses[i] = *DocumentToResponse(&documents[i])
	}
	return responses
}
