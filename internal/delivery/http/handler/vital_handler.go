package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/usecase"
	"personal-health-record/pkg/response"
)

type VitalHandler struct {
	vitalUsecase usecase.VitalUsecase
}

func NewVitalHandler(vitalUsecase usecase.VitalUsecase) *VitalHandler {
	return &VitalHandler{
		vitalUsecase: vitalUsecase,
	}
}

func (h *VitalHandler) ListVitals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	vitals, err := h.vitalUsecase.ListVitals(r.Context(), userID, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get vitals")
		return
	}

	response.Success(w, http.StatusOK, "Vitals retrieved successfully", vitals)
}

func (h *VitalHandler) RecordVital(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.VitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	vital, err := h.vitalUsecase.RecordVital(r.Context(), userID, &req)
	if err != nil {
		if !writeUsecaseError(w, err) {
			response.InternalServerError(w, "Failed to record vitals")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Vitals recorded successfully", vital)
}

// parseLimit reads ?limit=N. Absent means no limit.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
		return 0, false
	}
	return limit, true
}
