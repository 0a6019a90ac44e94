package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medscribe/clinic-backend/pkg/errors"
)

// DoctorOverrideAdapter implements the DoctorOverrideRepository interface
type DoctorOverrideAdapter struct {
	client *postgres.Client
}

// NewDoctorOverrideAdapter creates a new doctor override adapter
func NewDoctorOverrideAdapter(client *postgres.Client) repositories.DoctorOverrideRepository {
	return &DoctorOverrideAdapter{
		client: client,
	}
}

// Get returns the doctor's override for a term name, or nil when none exists
func (a *DoctorOverrideAdapter) Get(ctx context.Context, doctorID, termName string) (*entities.DoctorDoseOverride, error) {
	normalized := entities.NormalizeTermName(termName)
	if doctorID == "" || normalized == "" {
		return nil, nil
	}

	q := `
		SELECT doctor_id, medicine_name, dosage, frequency, duration,
			timing, instructions, quantity, usage_count, updated_at
		FROM doctor_dose_overrides
		WHERE doctor_id = $1 AND LOWER(medicine_name) = $2
	`

	override := &entities.DoctorDoseOverride{}
	var dosage, frequency, duration, timing, instructions sql.NullString
	var quantity sql.NullInt64

	err := a.client.DB().QueryRowContext(ctx, q, doctorID, normalized).Scan(
		&override.DoctorID,
		&override.TermName,
		&dosage,
		&frequency,
		&duration,
		&timing,
		&instructions,
		&quantity,
		&override.UsageCount,
		&override.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor override", err)
	}

	override.Dosage = dosage.String
	override.Frequency = frequency.String
	override.Duration = duration.String
	override.Timing = timing.String
	override.Instructions = instructions.String
	override.Quantity = int(quantity.Int64)

	return override, nil
}

// Upsert creates or partially updates the override for (doctorID, termName).
// Empty incoming fields keep the stored value, so a save that only sets
// timing does not wipe the doctor's remembered frequency.
func (a *DoctorOverrideAdapter) Upsert(ctx context.Context, override *entities.DoctorDoseOverride) error {
	if override == nil || override.DoctorID == "" {
		return apperrors.NewValidationError("doctor id is required")
	}
	normalized := entities.NormalizeTermName(override.TermName)
	if normalized == "" {
		return apperrors.NewValidationError("term name is required")
	}

	q := `
		INSERT INTO doctor_dose_overrides
			(doctor_id, medicine_name, dosage, frequency, duration,
			 timing, instructions, quantity, usage_count, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, 0), 1, $9)
		ON CONFLICT (doctor_id, medicine_name)
		DO UPDATE SET
			dosage = COALESCE(NULLIF($3, ''), doctor_dose_overrides.dosage),
			frequency = COALESCE(NULLIF($4, ''), doctor_dose_overrides.frequency),
			duration = COALESCE(NULLIF($5, ''), doctor_dose_overrides.duration),
			timing = COALESCE(NULLIF($6, ''), doctor_dose_overrides.timing),
			instructions = COALESCE(NULLIF($7, ''), doctor_dose_overrides.instructions),
			quantity = COALESCE(NULLIF($8, 0), doctor_dose_overrides.quantity),
			usage_count = doctor_dose_overrides.usage_count + 1,
			updated_at = $9
	`

	_, err := a.client.DB().ExecContext(ctx, q,
		override.DoctorID,
		normalized,
		override.Dosage,
		override.Frequency,
		override.Duration,
		override.Timing,
		override.Instructions,
		override.Quantity,
		time.Now(),
	)
	if err != nil {
		return apperrors.NewInternalError("failed to upsert doctor override", err)
	}

	return nil
}
