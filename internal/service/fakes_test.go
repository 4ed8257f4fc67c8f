package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"personal-health-record/config"
	"personal-health-record/internal/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

type storedBlob struct {
	data        []byte
	contentType string
}

// fakeStorage keeps objects in memory and serves presigned URLs from an httptest server.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]storedBlob
	server  *httptest.Server

	putErr     error
	presignErr error
	deleteErr  error

	putCalls    int
	deleteCalls int
}

func newFakeStorage(t *testing.T) *fakeStorage {
	t.Helper()
	fs := &fakeStorage{objects: map[string]storedBlob{}}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		blob, ok := fs.objects[strings.TrimPrefix(r.URL.Path, "/")]
		fs.mu.Unlock()
		if !ok {
			http.Error(w, "NoSuchKey", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", blob.contentType)
		w.Write(blob.data)
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func (f *fakeStorage) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if f.putErr != nil {
		return &storage.TransferError{Op: "upload", Bucket: bucket, Key: key, Err: f.putErr}
	}
	f.objects[key] = storedBlob{data: append([]byte(nil), body...), contentType: contentType}
	return nil
}

func (f *fakeStorage) PresignGetObject(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", &storage.TransferError{Op: "sign", Bucket: bucket, Key: key, Err: f.presignErr}
	}
	return f.server.URL + "/" + key + "?expires=" + expires.String(), nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return &storage.TransferError{Op: "delete", Bucket: bucket, Key: key, Err: f.deleteErr}
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

var errBoom = errors.New("boom")

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:            "medical-documents",
		UploadURLExpiry:   7 * 24 * time.Hour,
		DownloadURLExpiry: time.Hour,
	}
}
