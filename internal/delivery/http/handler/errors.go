package handler

import (
	"errors"
	"net/http"

	"personal-health-record/internal/delivery/http/middleware"
	"personal-health-record/internal/infrastructure/storage"
	"personal-health-record/internal/usecase"
	"personal-health-record/pkg/response"

	"github.com/google/uuid"
)

// writeUsecaseError maps the shared error taxonomy onto responses.
// It returns false when err is none of them so the caller can pick a fallback.
func writeUsecaseError(w http.ResponseWriter, err error) bool {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		response.ValidationError(w, validationErr.Fields)
		return true
	}

	var transferErr *storage.TransferError
	if errors.As(err, &transferErr) {
		response.BadGateway(w, "Storage request failed: "+transferErr.Op)
		return true
	}

	return false
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return userID, ok
}
