package services

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	"github.com/medscribe/clinic-backend/internal/infrastructure/observability"
	"github.com/medscribe/clinic-backend/pkg/dosage"
)

// DoseService resolves dosing defaults for a medication, merging the
// doctor's remembered preferences over the reference catalog
type DoseService struct {
	overrides repositories.DoctorOverrideRepository
	refs      repositories.DoseReferenceRepository
}

// NewDoseService creates a new dose service
func NewDoseService(overrides repositories.DoctorOverrideRepository, refs repositories.DoseReferenceRepository) *DoseService {
	return &DoseService{
		overrides: overrides,
		refs:      refs,
	}
}

// Resolve merges the doctor's override over the reference record, field
// by field. A field the override leaves empty falls through to the
// reference; a field neither has stays unset. No data anywhere yields a
// zero-value DoseDefaults and a nil error, so the pad prompts for
// manual entry instead of surfacing a failure.
func (s *DoseService) Resolve(ctx context.Context, termName, doctorID string) (*entities.DoseDefaults, error) {
	defaults := &entities.DoseDefaults{}
	if entities.NormalizeTermName(termName) == "" {
		return defaults, nil
	}

	logger := observability.LoggerFromContext(ctx)

	var override *entities.DoctorDoseOverride
	if s.overrides != nil && doctorID != "" {
		var err error
		override, err = s.overrides.Get(ctx, doctorID, termName)
		if err != nil {
			// The reference tier can still answer
			logger.Warn().Err(err).Str("term", termName).Msg("doctor override lookup failed")
			override = nil
		}
	}

	var ref *entities.DoseReference
	if s.refs != nil {
		var err error
		ref, err = s.refs.FindBest(ctx, termName)
		if err != nil {
			logger.Warn().Err(err).Str("term", termName).Msg("dose reference lookup failed")
			ref = nil
		}
	}

	if override == nil && ref == nil {
		return defaults, nil
	}

	pick := func(overrideVal, refVal string) string {
		if overrideVal != "" {
			return overrideVal
		}
		return refVal
	}

	var o entities.DoctorDoseOverride
	if override != nil {
		o = *override
	}
	var r entities.DoseReference
	if ref != nil {
		r = *ref
	}

	defaults.Dosage = pick(o.Dosage, r.StandardDosage)
	defaults.Frequency = pick(o.Frequency, r.Frequency)
	defaults.Duration = pick(o.Duration, r.Duration)
	defaults.Route = r.Route
	defaults.Timing = o.Timing
	defaults.Instructions = pick(o.Instructions, r.Instructions)
	defaults.Quantity = o.Quantity

	// Derive quantity when the doctor has no remembered value but the
	// resolved frequency and duration parse
	if defaults.Quantity == 0 {
		defaults.Quantity = dosage.CalculateQuantity(defaults.Frequency, defaults.Duration)
	}

	return defaults, nil
}

// Remember saves the doctor's dosing choices for a medication so the
// next resolution reflects them. Empty fields keep earlier values.
func (s *DoseService) Remember(ctx context.Context, override *entities.DoctorDoseOverride) error {
	return s.overrides.Upsert(ctx, override)
}

// Quantity computes the dispense quantity for a plain schedule
func (s *DoseService) Quantity(frequency, duration string) int {
	return dosage.CalculateQuantity(frequency, duration)
}

// TaperedQuantity computes the dispense quantity and narrative for a
// tapering schedule
func (s *DoseService) TaperedQuantity(steps []entities.TaperingStep) (int, string) {
	converted := make([]dosage.Step, 0, len(steps))
	for _, step := range steps {
		converted = append(converted, dosage.Step{
			StepNumber:   step.StepNumber,
			Dose:         step.Dose,
			Frequency:    step.Frequency,
			DurationDays: step.DurationDays,
		})
	}
	return dosage.CalculateTaperedQuantity(converted), dosage.ScheduleNarrative(converted)
}
