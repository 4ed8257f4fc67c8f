package converter

import (
	"time"

	"personal-health-record/internal/delivery/dto"
	"personal-health-record/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func ProfileToResponse(profile *entity.Profile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProfileResponse{
		ID:               profile.ID,
		FullName:         profile.FullName,
		DateOfBirth:      profile.DateOfBirth.Format(dateLayout),
		Weight:           nullDecimalToFloat(profile.Weight),
		Height:           nullDecimalToFloat(profile.Height),
		BloodType:        profile.BloodType,
		NationalIDNumber: profile.NationalIDNumber,
		PhoneNumber:      profile.PhoneNumber,
		CreatedAt:        profile.CreatedAt,
		UpdatedAt:        profile.UpdatedAt,
	}
}

// ProfileRequestToEntity expects a validated request; DateOfBirth must parse.
func ProfileRequestToEntity(id uuid.UUID, req *dto.ProfileRequest) (*entity.Profile, error) {
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return &entity.Profile{
		ID:               id,
		FullName:         req.FullName,
		DateOfBirth:      dob,
		Weight:           floatToNullDecimal(req.Weight),
		Height:           floatToNullDecimal(req.Height),
		BloodType:        req.BloodType,
		NationalIDNumber: req.NationalIDNumber,
		PhoneNumber:      req.PhoneNumber,
	}, nil
}

func nullDecimalToFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func floatToNullDecimal(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f).Round(2))
}
