package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"personal-health-record/internal/converter"
	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/entity"
	"personal-health-record/internal/domain/repository"
	"personal-health-record/internal/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

// Compensation and reconciliation writes outlive the request that triggered them.
const cleanupTimeout = 30 * time.Second

func cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}

type DocumentUsecase interface {
	ListDocuments(ctx context.Context, userID uuid.UUID, category string) (*dto.DocumentListResponse, error)
	Categories(ctx context.Context, userID uuid.UUID) (*dto.CategoriesResponse, error)
	CreateDocument(ctx context.Context, userID uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, userID, documentID uuid.UUID) error
	DownloadDocument(ctx context.Context, userID, documentID uuid.UUID) (*dto.DocumentDownload, error)
	SignedURL(ctx context.Context, userID, documentID uuid.UUID) (*dto.SignedURLResponse, error)
}

type documentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	documentRepo   repository.MedicalDocumentRepository
	reconRepo      repository.StorageReconciliationRepository
	transfer       service.FileTransferService
	auditService   service.AuditService
	maxSize        int64
	downloadExpiry time.Duration
}

func NewDocumentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	documentRepo repository.MedicalDocumentRepository,
	reconRepo repository.StorageReconciliationRepository,
	transfer service.FileTransferService,
	auditService service.AuditService,
	maxSize int64,
	downloadExpiry time.Duration,
) DocumentUsecase {
	return &documentUsecase{
		db:             db,
		log:            log,
		documentRepo:   documentRepo,
		reconRepo:      reconRepo,
		transfer:       transfer,
		auditService:   auditService,
		maxSize:        maxSize,
		downloadExpiry: downloadExpiry,
	}
}

// ListDocuments returns newest upload first. Any category string filters,
// including ones outside the fixed set.
func (u *documentUsecase) ListDocuments(ctx context.Context, userID uuid.UUID, category string) (*dto.DocumentListResponse, error) {
	documents, err := u.documentRepo.FindByUserID(ctx, u.db, userID, &entity.DocumentFilter{Category: category})
	if err != nil {
		u.log.Warnf("Failed to find documents for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.DocumentListResponse{
		Documents: converter.DocumentsToResponses(documents),
		Total:     len(documents),
	}, nil
}

// Categories is the fixed upload set followed by any other category already stored.
func (u *documentUsecase) Categories(ctx context.Context, userID uuid.UUID) (*dto.CategoriesResponse, error) {
	stored, err := u.documentRepo.DistinctCategories(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find document categories: %+v", err)
		return nil, err
	}

	categories := slices.Clone(entity.DocumentCategories)
	var extra []string
	for _, c := range stored {
		if c != "" && !slices.Contains(categories, c) && !slices.Contains(extra, c) {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)

	return &dto.CategoriesResponse{Categories: append(categories, extra...)}, nil
}

// CreateDocument checks the file before any storage call, uploads it, then
// writes the metadata row. A failed row insert removes the object again; if
// that also fails the object is queued for reconciliation.
func (u *documentUsecase) CreateDocument(ctx context.Context, userID uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	contentType, verr := u.checkFile(req)
	if verr != nil {
		return nil, verr
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = req.FileName
	}

	stored, err := u.transfer.Upload(ctx, userID, &service.UploadFile{
		Name:        req.FileName,
		ContentType: contentType,
		Data:        req.Data,
	})
	if err != nil {
		if stored != nil {
			u.compensateUpload(ctx, userID, stored.Path, err)
		}
		return nil, err
	}

	document := &entity.MedicalDocument{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Category:     req.Category,
		DocumentURL:  stored.URL,
		DocumentPath: stored.Path,
		ContentType:  contentType,
		Size:         int64(len(req.Data)),
		Notes:        strings.TrimSpace(req.Notes),
		UploadedAt:   time.Now(),
	}

	if err := u.documentRepo.Create(ctx, u.db, document); err != nil {
		u.log.Warnf("Failed to create document metadata: %+v", err)
		u.compensateUpload(ctx, userID, stored.Path, err)
		return nil, err
	}

	resp := converter.DocumentToResponse(document)
	u.auditService.LogCreate(ctx, nil, userID, entity.AuditActionDocumentUpload, "medical_document", document.ID.String(), resp)

	return resp, nil
}

func (u *documentUsecase) checkFile(req *dto.CreateDocumentRequest) (string, *ValidationError) {
	if len(req.Data) == 0 {
		return "", NewValidationError("file", "Please select a file to upload")
	}
	if int64(len(req.Data)) > u.maxSize {
		return "", NewValidationError("file", fmt.Sprintf("File size must be less than %dMB", u.maxSize/(1024*1024)))
	}

	mtype := mimetype.Detect(req.Data)
	if !mimetype.EqualsAny(mtype.String(), entity.AllowedDocumentTypes...) {
		return "", NewValidationError("file", "Only PDF, JPEG, and PNG files are allowed")
	}

	if !slices.Contains(entity.DocumentCategories, req.Category) {
		return "", NewValidationError("category", "category must be one of: "+strings.Join(entity.DocumentCategories, ", "))
	}

	return mtype.String(), nil
}

func (u *documentUsecase) compensateUpload(ctx context.Context, userID uuid.UUID, path string, cause error) {
	ctx, cancel := cleanupContext(ctx)
	defer cancel()

	err := u.transfer.Remove(ctx, path)
	if err == nil {
		return
	}

	u.log.Warnf("Failed to remove orphaned object %s, queueing for reconciliation: %+v", path, err)
	item := &entity.StorageReconciliation{
		Kind:   entity.ReconcileOrphanedObject,
		UserID: userID,
		Path:   path,
		Reason: cause.Error(),
	}
	if err := u.reconRepo.Create(ctx, u.db, item); err != nil {
		u.log.Errorf("Failed to queue orphaned object %s: %+v", path, err)
	}
}

// DeleteDocument removes the stored object first, then the row. If the row
// survives it is queued so the sweeper can finish the delete.
func (u *documentUsecase) DeleteDocument(ctx context.Context, userID, documentID uuid.UUID) error {
	document, err := u.documentRepo.FindByID(ctx, u.db, userID, documentID)
	if err != nil {
		u.log.Warnf("Failed to find document: %+v", err)
		return err
	}
	if document == nil {
		return ErrDocumentNotFound
	}

	if err := u.transfer.Remove(ctx, document.DocumentPath); err != nil {
		return err
	}

	rows, err := u.documentRepo.Delete(ctx, u.db, userID, documentID)
	if err != nil {
		u.log.Warnf("Failed to delete document row %s, queueing for reconciliation: %+v", documentID, err)
		item := &entity.StorageReconciliation{
			Kind:       entity.ReconcileDanglingRow,
			UserID:     userID,
			DocumentID: &document.ID,
			Path:       document.DocumentPath,
			Reason:     err.Error(),
		}
		qctx, cancel := cleanupContext(ctx)
		defer cancel()
		if qerr := u.reconRepo.Create(qctx, u.db, item); qerr != nil {
			u.log.Errorf("Failed to queue dangling document %s: %+v", documentID, qerr)
		}
		return err
	}
	if rows == 0 {
		return ErrDocumentNotFound
	}

	u.auditService.LogDelete(ctx, nil, userID, entity.AuditActionDocumentDelete, "medical_document", documentID.String(), converter.DocumentToResponse(document))
	return nil
}

func (u *documentUsecase) DownloadDocument(ctx context.Context, userID, documentID uuid.UUID) (*dto.DocumentDownload, error) {
	document, err := u.documentRepo.FindByID(ctx, u.db, userID, documentID)
	if err != nil {
		u.log.Warnf("Failed to find document: %+v", err)
		return nil, err
	}
	if document == nil {
		return nil, ErrDocumentNotFound
	}

	object, err := u.transfer.Download(ctx, document.DocumentPath)
	if err != nil {
		return nil, err
	}

	fileName := document.Title
	if ext := filepath.Ext(document.DocumentPath); ext != "" && !strings.EqualFold(filepath.Ext(fileName), ext) {
		fileName += ext
	}

	contentType := document.ContentType
	if contentType == "" {
		contentType = object.ContentType
	}

	return &dto.DocumentDownload{
		FileName:    fileName,
		ContentType: contentType,
		Data:        object.Data,
	}, nil
}

func (u *documentUsecase) SignedURL(ctx context.Context, userID, documentID uuid.UUID) (*dto.SignedURLResponse, error) {
	document, err := u.documentRepo.FindByID(ctx, u.db, userID, documentID)
	if err != nil {
		u.log.Warnf("Failed to find document: %+v", err)
		return nil, err
	}
	if document == nil {
		return nil, ErrDocumentNotFound
	}

	url, err := u.transfer.SignedURL(ctx, document.DocumentPath)
	if err != nil {
		return nil, err
	}

	return &dto.SignedURLResponse{
		URL:       url,
		ExpiresIn: int64(u.downloadExpiry.Seconds()),
	}, nil
}
