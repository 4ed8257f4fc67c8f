package usecase

import (
	"context"
	"testing"
	"time"

	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVitalFixture(t *testing.T) (VitalUsecase, *fakeVitalRepo) {
	t.Helper()
	db, _ := newMockDB(t)
	repo := &fakeVitalRepo{}
	return NewVitalUsecase(db, testLogger(), repo, &fakeAudit{}), repo
}

func TestRecordVital_OutOfRangeNeverWrites(t *testing.T) {
	uc, repo := newVitalFixture(t)
	userID := uuid.New()

	cases := []struct {
		name  string
		req   dto.VitalRequest
		field string
	}{
		{"systolic high", dto.VitalRequest{BloodPressureSystolic: ptr(250)}, "blood_pressure_systolic"},
		{"systolic low", dto.VitalRequest{BloodPressureSystolic: ptr(69)}, "blood_pressure_systolic"},
		{"diastolic", dto.VitalRequest{BloodPressureDiastolic: ptr(131)}, "blood_pressure_diastolic"},
		{"sugar", dto.VitalRequest{BloodSugar: ptr(29.9)}, "blood_sugar"},
		{"heart rate", dto.VitalRequest{HeartRate: ptr(201)}, "heart_rate"},
		{"one bad among good", dto.VitalRequest{HeartRate: ptr(72), BloodSugar: ptr(601.0)}, "blood_sugar"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordVital(context.Background(), userID, &tc.req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	assert.Equal(t, 0, repo.createCalls)
}

func TestRecordVital_SystolicScenarioMessage(t *testing.T) {
	uc, _ := newVitalFixture(t)

	_, err := uc.RecordVital(context.Background(), uuid.New(), &dto.VitalRequest{BloodPressureSystolic: ptr(250)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid systolic pressure (70-200)", verr.Fields["blood_pressure_systolic"])
}

func TestRecordVital_EmptyReadingRejected(t *testing.T) {
	uc, repo := newVitalFixture(t)

	_, err := uc.RecordVital(context.Background(), uuid.New(), &dto.VitalRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, repo.createCalls)
}

func TestRecordVital_BoundsAreInclusive(t *testing.T) {
	uc, repo := newVitalFixture(t)
	userID := uuid.New()

	resp, err := uc.RecordVital(context.Background(), userID, &dto.VitalRequest{
		BloodPressureSystolic:  ptr(200),
		BloodPressureDiastolic: ptr(40),
		BloodSugar:             ptr(30.0),
		HeartRate:              ptr(200),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.False(t, resp.RecordedAt.IsZero())
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, userID, repo.records[0].UserID)
}

func TestListVitals_NewestFirstWithLimit(t *testing.T) {
	uc, repo := newVitalFixture(t)
	userID := uuid.New()
	base := time.Now()

	for i := 0; i < 12; i++ {
		repo.records = append(repo.records, entity.VitalRecord{
			ID: uuid.New(), UserID: userID, HeartRate: ptr(60 + i), RecordedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	repo.records = append(repo.records, entity.VitalRecord{ID: uuid.New(), UserID: uuid.New(), HeartRate: ptr(99), RecordedAt: base})

	resp, err := uc.ListVitals(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, resp.Vitals, 10)
	assert.Equal(t, 71, *resp.Vitals[0].HeartRate)

	all, err := uc.ListVitals(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, all.Total)
}
