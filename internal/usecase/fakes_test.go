package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"personal-health-record/internal/domain/entity"
	"personal-health-record/internal/infrastructure/storage"
	"personal-health-record/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// users

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// profiles

type fakeProfileRepo struct {
	mu          sync.Mutex
	profiles    map[uuid.UUID]entity.Profile
	findErr     error
	createCalls int
	// raceWinner is inserted just before the caller's own insert.
	raceWinner *entity.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]entity.Profile{}}
}

func (r *fakeProfileRepo) CreateIfAbsent(ctx context.Context, db *gorm.DB, profile *entity.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.raceWinner != nil {
		r.profiles[r.raceWinner.ID] = *r.raceWinner
		r.raceWinner = nil
	}
	if _, ok := r.profiles[profile.ID]; ok {
		return false, nil
	}
	r.profiles[profile.ID] = *profile
	return true, nil
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if p, ok := r.profiles[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, db *gorm.DB, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = *profile
	return nil
}

// vitals

type fakeVitalRepo struct {
	mu          sync.Mutex
	records     []entity.VitalRecord
	createCalls int
}

func (r *fakeVitalRepo) Create(ctx context.Context, db *gorm.DB, record *entity.VitalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeVitalRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]entity.VitalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.VitalRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// documents

type fakeDocRepo struct {
	mu        sync.Mutex
	docs      map[uuid.UUID]entity.MedicalDocument
	createErr error
	deleteErr error
	countErr  error
	// called before a write, e.g. to cancel the caller's context
	onWrite func()
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: map[uuid.UUID]entity.MedicalDocument{}}
}

func (r *fakeDocRepo) Create(ctx context.Context, db *gorm.DB, document *entity.MedicalDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onWrite != nil {
		r.onWrite()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.createErr != nil {
		return r.createErr
	}
	r.docs[document.ID] = *document
	return nil
}

func (r *fakeDocRepo) FindByID(ctx context.Context, db *gorm.DB, userID, id uuid.UUID) (*entity.MedicalDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok && d.UserID == userID {
		return &d, nil
	}
	return nil, nil
}

func (r *fakeDocRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, filter *entity.DocumentFilter) ([]entity.MedicalDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MedicalDocument
	for _, d := range r.docs {
		if d.UserID != userID {
			continue
		}
		if filter != nil && filter.Category != "" && d.Category != filter.Category {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *fakeDocRepo) CountByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, d := range r.docs {
		if d.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDocRepo) DistinctCategories(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, d := range r.docs {
		if d.UserID == userID && !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeDocRepo) Delete(ctx context.Context, db *gorm.DB, userID, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onWrite != nil {
		r.onWrite()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	if d, ok := r.docs[id]; ok && d.UserID == userID {
		delete(r.docs, id)
		return 1, nil
	}
	return 0, nil
}

// reconciliation

type fakeReconRepo struct {
	mu    sync.Mutex
	items []entity.StorageReconciliation
}

func (r *fakeReconRepo) Create(ctx context.Context, db *gorm.DB, item *entity.StorageReconciliation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	item.ID = int64(len(r.items) + 1)
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeReconRepo) FindPending(ctx context.Context, db *gorm.DB, limit int) ([]entity.StorageReconciliation, error) {
	return nil, nil
}

func (r *fakeReconRepo) MarkResolved(ctx context.Context, db *gorm.DB, id int64) error {
	return nil
}

func (r *fakeReconRepo) IncrementAttempts(ctx context.Context, db *gorm.DB, id int64, reason string) error {
	return nil
}

// file transfer

type fakeTransfer struct {
	mu          sync.Mutex
	objects     map[string][]byte
	uploadCalls int
	removeCalls int
	uploadErr   error
	removeErr   error
	downloadErr error
}

func newFakeTransfer() *fakeTransfer {
	return &fakeTransfer{objects: map[string][]byte{}}
}

func (f *fakeTransfer) Upload(ctx context.Context, ownerID uuid.UUID, file *service.UploadFile) (*service.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	path := service.ObjectPath(ownerID, file.Name, file.ContentType)
	f.objects[path] = append([]byte(nil), file.Data...)
	return &service.StoredObject{Path: path, URL: "https://storage.test/" + path + "?signed=7d"}, nil
}

func (f *fakeTransfer) Download(ctx context.Context, path string) (*service.DownloadedObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.objects[path]
	if !ok {
		return nil, &storage.TransferError{Op: "download", Bucket: "medical-documents", Key: path, StatusCode: 404}
	}
	return &service.DownloadedObject{Data: data, ContentType: "application/octet-stream"}, nil
}

func (f *fakeTransfer) SignedURL(ctx context.Context, path string) (string, error) {
	return "https://storage.test/" + path + "?signed=1h", nil
}

func (f *fakeTransfer) Remove(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	if err := ctx.Err(); err != nil {
		return &storage.TransferError{Op: "delete", Bucket: "medical-documents", Key: path, Err: err}
	}
	if f.removeErr != nil {
		return &storage.TransferError{Op: "delete", Bucket: "medical-documents", Key: path, Err: f.removeErr}
	}
	delete(f.objects, path)
	return nil
}

func (f *fakeTransfer) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[path]
	return ok
}

// audit

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAudit) record(action string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

func (a *fakeAudit) LogEvent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, metadata entity.JSON) error {
	return a.record(action)
}

func (a *fakeAudit) LogCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return a.record(action)
}

func (a *fakeAudit) LogUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return a.record(action)
}

func (a *fakeAudit) LogDelete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return a.record(action)
}

func (a *fakeAudit) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, got := range a.actions {
		if got == action {
			return true
		}
	}
	return false
}
