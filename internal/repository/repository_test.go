package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"personal-health-record/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func TestVitalRecordRepository_FindByUserID_NewestFirstWithLimit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVitalRecordRepository()
	userID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "blood_pressure_systolic", "heart_rate", "recorded_at"}).
		AddRow(uuid.New().String(), userID.String(), 120, 70, now).
		AddRow(uuid.New().String(), userID.String(), 118, 65, now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "vital_records" WHERE user_id = $1 ORDER BY recorded_at DESC LIMIT $2`)).
		WithArgs(userID, 10).
		WillReturnRows(rows)

	records, err := repo.FindByUserID(context.Background(), db, userID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 120, *records[0].BloodPressureSystolic)
	assert.Nil(t, records[0].BloodSugar)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVitalRecordRepository_FindByUserID_NoLimit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVitalRecordRepository()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "vital_records" WHERE user_id = \$1 ORDER BY recorded_at DESC$`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := repo.FindByUserID(context.Background(), db, userID, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_CreateIfAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository()
	profile := entity.DefaultProfileFor(&entity.User{ID: uuid.New(), Email: "user@example.com"}, time.Now())

	mock.ExpectExec(`INSERT INTO "profiles" .* ON CONFLICT \("id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "profiles" .* ON CONFLICT \("id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.CreateIfAbsent(context.Background(), db, profile)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(context.Background(), db, profile)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpsertKeepsCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository()
	profile := entity.DefaultProfileFor(&entity.User{ID: uuid.New(), Email: "a@b.c"}, time.Now())

	mock.ExpectExec(`INSERT INTO "profiles" .* ON CONFLICT \("id"\) DO UPDATE SET "full_name"="excluded"."full_name".*"updated_at"="excluded"."updated_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), db, profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	profile, err := repo.FindByID(context.Background(), db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestMedicalDocumentRepository_FindByUserID_Category(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMedicalDocumentRepository()
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "category", "document_path"}).
		AddRow(uuid.New().String(), userID.String(), "CBC", entity.CategoryLabReports, userID.String()+"/a_1.pdf")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "medical_documents" WHERE user_id = $1 AND category = $2 ORDER BY uploaded_at DESC`)).
		WithArgs(userID, entity.CategoryLabReports).
		WillReturnRows(rows)

	docs, err := repo.FindByUserID(context.Background(), db, userID, &entity.DocumentFilter{Category: entity.CategoryLabReports})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "CBC", docs[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicalDocumentRepository_DeleteScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMedicalDocumentRepository()
	userID, docID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "medical_documents" WHERE id = $1 AND user_id = $2`)).
		WithArgs(docID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Delete(context.Background(), db, userID, docID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageReconciliationRepository_FindPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStorageReconciliationRepository()

	rows := sqlmock.NewRows([]string{"id", "kind", "user_id", "path", "attempts"}).
		AddRow(1, entity.ReconcileOrphanedObject, uuid.New().String(), "u/x_1.pdf", 0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "storage_reconciliations" WHERE resolved_at IS NULL ORDER BY attempts ASC, created_at ASC LIMIT $1`)).
		WithArgs(50).
		WillReturnRows(rows)

	items, err := repo.FindPending(context.Background(), db, 50)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entity.ReconcileOrphanedObject, items[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
