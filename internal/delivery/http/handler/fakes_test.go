package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/delivery/http/middleware"
	"personal-health-record/pkg/jwt"
	"personal-health-record/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeProfileUsecase struct {
	ensure func(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	save   func(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest) (*dto.ProfileResponse, error)
}

func (f *fakeProfileUsecase) EnsureProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	return f.ensure(ctx, userID)
}

func (f *fakeProfileUsecase) SaveProfile(ctx context.Context, userID uuid.UUID, req *dto.ProfileRequest) (*dto.ProfileResponse, error) {
	return f.save(ctx, userID, req)
}

type fakeVitalUsecase struct {
	list   func(ctx context.Context, userID uuid.UUID, limit int) (*dto.VitalListResponse, error)
	record func(ctx context.Context, userID uuid.UUID, req *dto.VitalRequest) (*dto.VitalResponse, error)
}

func (f *fakeVitalUsecase) ListVitals(ctx context.Context, userID uuid.UUID, limit int) (*dto.VitalListResponse, error) {
	return f.list(ctx, userID, limit)
}

func (f *fakeVitalUsecase) RecordVital(ctx context.Context, userID uuid.UUID, req *dto.VitalRequest) (*dto.VitalResponse, error) {
	return f.record(ctx, userID, req)
}

type fakeDocumentUsecase struct {
	list       func(ctx context.Context, userID uuid.UUID, category string) (*dto.DocumentListResponse, error)
	categories func(ctx context.Context, userID uuid.UUID) (*dto.CategoriesResponse, error)
	create     func(ctx context.Context, userID uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	remove     func(ctx context.Context, userID, documentID uuid.UUID) error
	download   func(ctx context.Context, userID, documentID uuid.UUID) (*dto.DocumentDownload, error)
	signedURL  func(ctx context.Context, userID, documentID uuid.UUID) (*dto.SignedURLResponse, error)
}

func (f *fakeDocumentUsecase) ListDocuments(ctx context.Context, userID uuid.UUID, category string) (*dto.DocumentListResponse, error) {
	return f.list(ctx, userID, category)
}

func (f *fakeDocumentUsecase) Categories(ctx context.Context, userID uuid.UUID) (*dto.CategoriesResponse, error) {
	return f.categories(ctx, userID)
}

func (f *fakeDocumentUsecase) CreateDocument(ctx context.Context, userID uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	return f.create(ctx, userID, req)
}

func (f *fakeDocumentUsecase) DeleteDocument(ctx context.Context, userID, documentID uuid.UUID) error {
	return f.remove(ctx, userID, documentID)
}

func (f *fakeDocumentUsecase) DownloadDocument(ctx context.Context, userID, documentID uuid.UUID) (*dto.DocumentDownload, error) {
	return f.download(ctx, userID, documentID)
}

func (f *fakeDocumentUsecase) SignedURL(ctx context.Context, userID, documentID uuid.UUID) (*dto.SignedURLResponse, error) {
	return f.signedURL(ctx, userID, documentID)
}

type fakeDashboardUsecase struct {
	get func(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error)
}

func (f *fakeDashboardUsecase) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	return f.get(ctx, userID)
}

type fakeActivityUsecase struct {
	list func(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error)
}

func (f *fakeActivityUsecase) ListActivity(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error) {
	return f.list(ctx, userID, limit)
}

// authed attaches claims for userID the way the auth middleware would.
func authed(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := middleware.WithClaims(r.Context(), &jwt.Claims{UserID: userID, Email: "user@example.com", TokenID: "tid", TokenType: jwt.AccessToken})
	return r.WithContext(ctx)
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	return httptest.NewRequest(method, target, buf)
}

func withID(r *http.Request, id string) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": id})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
