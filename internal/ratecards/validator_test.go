package ratecards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/podcastflow/backend/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestValidate_Overlap(t *testing.T) {
	existing := []models.RateHistory{
		{Placement: models.PlacementMidRoll, RateCents: 50000, EffectiveDate: date("2025-08-01"), EndDate: datePtr("2025-08-31")},
	}

	tests := []struct {
		name string
		cand Candidate
		want error
	}{
		{
			"overlapping interval rejected",
			Candidate{Placement: models.PlacementMidRoll, RateCents: 60000, EffectiveDate: date("2025-08-15"), EndDate: datePtr("2025-09-15")},
			ErrOverlap,
		},
		{
			"adjacent interval accepted",
			Candidate{Placement: models.PlacementMidRoll, RateCents: 60000, EffectiveDate: date("2025-09-01"), EndDate: datePtr("2025-09-30")},
			nil,
		},
		{
			"contained interval rejected",
			Candidate{Placement: models.PlacementMidRoll, RateCents: 60000, EffectiveDate: date("2025-08-10"), EndDate: datePtr("2025-08-20")},
			ErrOverlap,
		},
		{
			"surrounding interval rejected",
			Candidate{Placement: models.PlacementMidRoll, RateCents: 60000, EffectiveDate: date("2025-07-01"), EndDate: datePtr("2025-10-01")},
			ErrOverlap,
		},
		{
			"different placement accepted",
			Candidate{Placement: models.PlacementPreRoll, RateCents: 60000, EffectiveDate: date("2025-08-15"), EndDate: datePtr("2025-09-15")},
			nil,
		},
		{
			"open-ended candidate over existing rejected",
			Candidate{Placement: models.PlacementMidRoll, RateCents: 60000, EffectiveDate: date("2025-08-20"), EndDate: nil},
			ErrOverlap,
		},
		{
			"open-ended candidate after existing accepted",
			Candidate{Placement: models.PlacementMidRoll, RateCents: 60000, EffectiveDate: date("2025-09-01"), EndDate: nil},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cand, existing)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidate_OpenEndedExisting(t *testing.T) {
	existing := []models.RateHistory{
		{Placement: models.PlacementMidRoll, RateCents: 50000, EffectiveDate: date("2025-08-01"), EndDate: nil},
	}
	err := Validate(Candidate{
		Placement: models.PlacementMidRoll, RateCents: 60000,
		EffectiveDate: date("2026-01-01"), EndDate: datePtr("2026-02-01"),
	}, existing)
	assert.ErrorIs(t, err, ErrOverlap)

	// Before the open-ended entry starts is fine.
	err = Validate(Candidate{
		Placement: models.PlacementMidRoll, RateCents: 60000,
		EffectiveDate: date("2025-07-01"), EndDate: datePtr("2025-08-01"),
	}, existing)
	assert.NoError(t, err)
}

func TestValidate_Amounts(t *testing.T) {
	err := Validate(Candidate{Placement: models.PlacementMidRoll, RateCents: 0, EffectiveDate: date("2025-08-01")}, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	err = Validate(Candidate{Placement: models.PlacementMidRoll, RateCents: -100, EffectiveDate: date("2025-08-01")}, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	err = Validate(Candidate{
		Placement: models.PlacementMidRoll, RateCents: 100,
		EffectiveDate: date("2025-08-10"), EndDate: datePtr("2025-08-01"),
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRateInForce(t *testing.T) {
	entries := []models.RateHistory{
		{Placement: models.PlacementMidRoll, RateCents: 40000, EffectiveDate: date("2025-07-01"), EndDate: datePtr("2025-08-01")},
		{Placement: models.PlacementMidRoll, RateCents: 50000, EffectiveDate: date("2025-08-01"), EndDate: nil},
		{Placement: models.PlacementPreRoll, RateCents: 20000, EffectiveDate: date("2025-07-01"), EndDate: nil},
	}

	got := RateInForce(entries, models.PlacementMidRoll, date("2025-08-15"))
	assert.NotNil(t, got)
	assert.Equal(t, int64(50000), got.RateCents)

	got = RateInForce(entries, models.PlacementMidRoll, date("2025-07-15"))
	assert.NotNil(t, got)
	assert.Equal(t, int64(40000), got.RateCents)

	// End boundary is exclusive: 08-01 belongs to the second entry.
	got = RateInForce(entries, models.PlacementMidRoll, date("2025-08-01"))
	assert.NotNil(t, got)
	assert.Equal(t, int64(50000), got.RateCents)

	assert.Nil(t, RateInForce(entries, models.PlacementPostRoll, date("2025-08-15")))
	assert.Nil(t, RateInForce(entries, models.PlacementMidRoll, date("2025-06-01")))
}
