package services_test

import (
	"context"
	"testing"

	"github.com/medscribe/clinic-backend/internal/application/services"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOverrideRepo struct {
	override *entities.DoctorDoseOverride
	err      error
	saved    *entities.DoctorDoseOverride
}

func (s *stubOverrideRepo) Get(ctx context.Context, doctorID, termName string) (*entities.DoctorDoseOverride, error) {
	return s.override, s.err
}

func (s *stubOverrideRepo) Upsert(ctx context.Context, override *entities.DoctorDoseOverride) error {
	s.saved = override
	return s.err
}

func TestDoseService_Resolve_NoDataAnywhere(t *testing.T) {
	service := services.NewDoseService(&stubOverrideRepo{}, &stubDoseRefRepo{})

	defaults, err := service.Resolve(context.Background(), "Unknownicillin", "doc-1")

	require.NoError(t, err)
	assert.True(t, defaults.IsEmpty())
}

func TestDoseService_Resolve_ReferenceOnly(t *testing.T) {
	refs := &stubDoseRefRepo{refs: []*entities.DoseReference{{
		MedicationName: "Paracetamol 650",
		StandardDosage: "650mg",
		Frequency:      "1-0-1",
		Duration:       "5 days",
		Route:          "oral",
	}}}
	service := services.NewDoseService(&stubOverrideRepo{}, refs)

	defaults, err := service.Resolve(context.Background(), "Paracetamol 650", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, "650mg", defaults.Dosage)
	assert.Equal(t, "1-0-1", defaults.Frequency)
	assert.Equal(t, "5 days", defaults.Duration)
	assert.Equal(t, "oral", defaults.Route)
	// ceil(2 per day * 5 days)
	assert.Equal(t, 10, defaults.Quantity)
}

func TestDoseService_Resolve_PartialOverrideMergesFieldByField(t *testing.T) {
	overrides := &stubOverrideRepo{override: &entities.DoctorDoseOverride{
		DoctorID: "doc-1",
		TermName: "paracetamol 650",
		Timing:   "after food",
	}}
	refs := &stubDoseRefRepo{refs: []*entities.DoseReference{{
		MedicationName: "Paracetamol 650",
		StandardDosage: "650mg",
		Frequency:      "1-0-1",
		Duration:       "5 days",
	}}}
	service := services.NewDoseService(overrides, refs)

	defaults, err := service.Resolve(context.Background(), "Paracetamol 650", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, "after food", defaults.Timing)
	assert.Equal(t, "650mg", defaults.Dosage)
	assert.Equal(t, "1-0-1", defaults.Frequency)
	assert.Equal(t, "5 days", defaults.Duration)
}

func TestDoseService_Resolve_OverrideWinsOverReference(t *testing.T) {
	overrides := &stubOverrideRepo{override: &entities.DoctorDoseOverride{
		DoctorID:  "doc-1",
		TermName:  "paracetamol 650",
		Frequency: "1-1-1",
		Duration:  "3 days",
		Quantity:  9,
	}}
	refs := &stubDoseRefRepo{refs: []*entities.DoseReference{{
		MedicationName: "Paracetamol 650",
		Frequency:      "1-0-1",
		Duration:       "5 days",
	}}}
	service := services.NewDoseService(overrides, refs)

	defaults, err := service.Resolve(context.Background(), "Paracetamol 650", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, "1-1-1", defaults.Frequency)
	assert.Equal(t, "3 days", defaults.Duration)
	assert.Equal(t, 9, defaults.Quantity)
}

func TestDoseService_Resolve_QuantityDerivedWhenUnset(t *testing.T) {
	overrides := &stubOverrideRepo{override: &entities.DoctorDoseOverride{
		DoctorID:  "doc-1",
		TermName:  "amoxicillin 500",
		Frequency: "1-1-1",
		Duration:  "1 week",
	}}
	service := services.NewDoseService(overrides, &stubDoseRefRepo{})

	defaults, err := service.Resolve(context.Background(), "Amoxicillin 500", "doc-1")

	require.NoError(t, err)
	// ceil(3 per day * 7 days)
	assert.Equal(t, 21, defaults.Quantity)
}

func TestDoseService_Resolve_UnparseableScheduleLeavesQuantityZero(t *testing.T) {
	refs := &stubDoseRefRepo{refs: []*entities.DoseReference{{
		MedicationName: "Some Cream",
		Frequency:      "apply liberally",
		Duration:       "as needed",
	}}}
	service := services.NewDoseService(&stubOverrideRepo{}, refs)

	defaults, err := service.Resolve(context.Background(), "Some Cream", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, 0, defaults.Quantity)
	assert.Equal(t, "apply liberally", defaults.Frequency)
}

func TestDoseService_Remember(t *testing.T) {
	overrides := &stubOverrideRepo{}
	service := services.NewDoseService(overrides, &stubDoseRefRepo{})

	err := service.Remember(context.Background(), &entities.DoctorDoseOverride{
		DoctorID: "doc-1",
		TermName: "Paracetamol 650",
		Timing:   "after food",
	})

	require.NoError(t, err)
	require.NotNil(t, overrides.saved)
	assert.Equal(t, "after food", overrides.saved.Timing)
}

func TestDoseService_TaperedQuantity(t *testing.T) {
	service := services.NewDoseService(&stubOverrideRepo{}, &stubDoseRefRepo{})

	steps := []entities.TaperingStep{
		{StepNumber: 1, Dose: "10mg", Frequency: "Once daily", DurationDays: 5},
		{StepNumber: 2, Dose: "5mg", Frequency: "Once daily", DurationDays: 5},
	}

	quantity, narrative := service.TaperedQuantity(steps)

	assert.Equal(t, 10, quantity)
	assert.Equal(t, "10mg Once daily for 5 days, Then 5mg Once daily for 5 days", narrative)
}
