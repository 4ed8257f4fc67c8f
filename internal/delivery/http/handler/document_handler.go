package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/usecase"
	"personal-health-record/pkg/response"
	"personal-health-record/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// multipart overhead allowed on top of the file itself
const formOverhead = 1 << 20

type DocumentHandler struct {
	documentUsecase usecase.DocumentUsecase
	validator       *validator.CustomValidator
	maxUploadSize   int64
}

func NewDocumentHandler(documentUsecase usecase.DocumentUsecase, validator *validator.CustomValidator, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		documentUsecase: documentUsecase,
		validator:       validator,
		maxUploadSize:   maxUploadSize,
	}
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	documents, err := h.documentUsecase.ListDocuments(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		response.InternalServerError(w, "Failed to get documents")
		return
	}

	response.Success(w, http.StatusOK, "Documents retrieved successfully", documents)
}

func (h *DocumentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	categories, err := h.documentUsecase.Categories(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get categories")
		return
	}

	response.Success(w, http.StatusOK, "Categories retrieved successfully", categories)
}

// UploadDocument accepts multipart/form-data with file, title, category and notes.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize + formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, http.StatusRequestEntityTooLarge, "File size must be less than "+strconv.FormatInt(h.maxUploadSize>>20, 10)+"MB", nil)
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "Please select a file to upload"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		response.ValidationError(w, map[string]string{"file": "File size must be less than " + strconv.FormatInt(h.maxUploadSize>>20, 10) + "MB"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read file", nil)
		return
	}

	req := dto.CreateDocumentRequest{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		Notes:    r.FormValue("notes"),
		FileName: header.Filename,
		Data:     data,
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	document, err := h.documentUsecase.CreateDocument(r.Context(), userID, &req)
	if err != nil {
		if !writeUsecaseError(w, err) {
			response.InternalServerError(w, "Failed to upload document")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Document uploaded successfully", document)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := h.documentParams(w, r)
	if !ok {
		return
	}

	if err := h.documentUsecase.DeleteDocument(r.Context(), userID, documentID); err != nil {
		h.writeError(w, err, "Failed to delete document")
		return
	}

	response.Success(w, http.StatusOK, "Document deleted successfully", nil)
}

// DownloadDocument streams the stored bytes back as an attachment.
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := h.documentParams(w, r)
	if !ok {
		return
	}

	file, err := h.documentUsecase.DownloadDocument(r.Context(), userID, documentID)
	if err != nil {
		h.writeError(w, err, "Failed to download document")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

func (h *DocumentHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := h.documentParams(w, r)
	if !ok {
		return
	}

	url, err := h.documentUsecase.SignedURL(r.Context(), userID, documentID)
	if err != nil {
		h.writeError(w, err, "Failed to sign document url")
		return
	}

	response.Success(w, http.StatusOK, "Signed URL issued", url)
}

func (h *DocumentHandler) documentParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	documentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid document ID", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, documentID, true
}

func (h *DocumentHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrDocumentNotFound) {
		response.NotFound(w, "Document not found")
		return
	}
	if !writeUsecaseError(w, err) {
		response.InternalServerError(w, fallback)
	}
}
