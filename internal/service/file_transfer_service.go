package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"personal-health-record/config"
	"personal-health-record/internal/infrastructure/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Swapped in tests.
var (
	newObjectID = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
	nowFunc     = time.Now
)

// UploadFile is a validated file ready to be stored.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// StoredObject is where an uploaded file ended up and how to retrieve it.
type StoredObject struct {
	Path string
	URL  string
}

type DownloadedObject struct {
	Data        []byte
	ContentType string
}

type FileTransferService interface {
	Upload(ctx context.Context, ownerID uuid.UUID, file *UploadFile) (*StoredObject, error)
	Download(ctx context.Context, path string) (*DownloadedObject, error)
	SignedURL(ctx context.Context, path string) (string, error)
	Remove(ctx context.Context, path string) error
}

type fileTransferService struct {
	storage    storage.ObjectStorage
	httpClient *http.Client
	log        *logrus.Logger
	cfg        config.StorageConfig
}

func NewFileTransferService(objectStorage storage.ObjectStorage, httpClient *http.Client, log *logrus.Logger, cfg config.StorageConfig) FileTransferService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &fileTransferService{
		storage:    objectStorage,
		httpClient: httpClient,
		log:        log,
		cfg:        cfg,
	}
}

// ObjectPath builds <ownerId>/<randomId>_<unixMillis>.<ext>.
func ObjectPath(ownerID uuid.UUID, fileName, contentType string) string {
	// the sniffed type wins over whatever name the client sent
	var ext string
	if m := mimetype.Lookup(contentType); m != nil {
		ext = strings.TrimPrefix(m.Extension(), ".")
	}
	if ext == "" {
		ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	}
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s_%d.%s", ownerID.String(), newObjectID(), nowFunc().UnixMilli(), ext)
}

func (s *fileTransferService) Upload(ctx context.Context, ownerID uuid.UUID, file *UploadFile) (*StoredObject, error) {
	path := ObjectPath(ownerID, file.Name, file.ContentType)

	if err := s.storage.PutObject(ctx, s.cfg.Bucket, path, file.Data, file.ContentType); err != nil {
		s.log.Warnf("Failed to upload object %s: %+v", path, err)
		return nil, err
	}

	url, err := s.storage.PresignGetObject(ctx, s.cfg.Bucket, path, s.cfg.UploadURLExpiry)
	if err != nil {
		s.log.Warnf("Failed to sign url for %s: %+v", path, err)
		// the object exists, the caller decides whether to keep it
		return &StoredObject{Path: path}, err
	}

	return &StoredObject{Path: path, URL: url}, nil
}

func (s *fileTransferService) SignedURL(ctx context.Context, path string) (string, error) {
	url, err := s.storage.PresignGetObject(ctx, s.cfg.Bucket, path, s.cfg.DownloadURLExpiry)
	if err != nil {
		s.log.Warnf("Failed to sign url for %s: %+v", path, err)
		return "", err
	}
	return url, nil
}

// Download fetches the object bytes through a short-lived signed URL.
func (s *fileTransferService) Download(ctx context.Context, path string) (*DownloadedObject, error) {
	url, err := s.SignedURL(ctx, path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &storage.TransferError{Op: "download", Bucket: s.cfg.Bucket, Key: path, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warnf("Failed to download object %s: %+v", path, err)
		return nil, &storage.TransferError{Op: "download", Bucket: s.cfg.Bucket, Key: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warnf("Failed to download object %s: status %d", path, resp.StatusCode)
		return nil, &storage.TransferError{Op: "download", Bucket: s.cfg.Bucket, Key: path, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &storage.TransferError{Op: "download", Bucket: s.cfg.Bucket, Key: path, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	return &DownloadedObject{Data: data, ContentType: contentType}, nil
}

func (s *fileTransferService) Remove(ctx context.Context, path string) error {
	if err := s.storage.DeleteObject(ctx, s.cfg.Bucket, path); err != nil {
		s.log.Warnf("Failed to remove object %s: %+v", path, err)
		return err
	}
	return nil
}
