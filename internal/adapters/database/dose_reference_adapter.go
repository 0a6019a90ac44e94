package database

import (
	"context"
	"database/sql"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medscribe/clinic-backend/pkg/errors"
)

// DoseReferenceAdapter implements the DoseReferenceRepository interface
type DoseReferenceAdapter struct {
	client *postgres.Client
}

// NewDoseReferenceAdapter creates a new dose reference adapter
func NewDoseReferenceAdapter(client *postgres.Client) repositories.DoseReferenceRepository {
	return &DoseReferenceAdapter{
		client: client,
	}
}

const doseReferenceColumns = `
	id, medication_name, active_ingredient, standard_dosage,
	recommended_frequency, recommended_duration, route_of_administration,
	max_daily_dose, special_instructions, dosage_form, strength
`

// SearchByName finds references by medication name or active ingredient.
// Exact matches sort before prefix matches before substring matches,
// then shorter names first.
func (a *DoseReferenceAdapter) SearchByName(ctx context.Context, name string, cap int) ([]*entities.DoseReference, error) {
	normalized := entities.NormalizeTermName(name)
	if normalized == "" {
		return []*entities.DoseReference{}, nil
	}
	if cap <= 0 {
		cap = 10
	}

	q := `
		SELECT ` + doseReferenceColumns + `
		FROM dose_references
		WHERE LOWER(medication_name) LIKE $1
			OR LOWER(active_ingredient) LIKE $1
		ORDER BY
			CASE
				WHEN LOWER(medication_name) = $2 THEN 0
				WHEN LOWER(medication_name) LIKE $3 THEN 1
				ELSE 2
			END,
			LENGTH(medication_name) ASC
		LIMIT $4
	`

	rows, err := a.client.DB().QueryContext(ctx, q, "%"+normalized+"%", normalized, normalized+"%", cap)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search dose references", err)
	}
	defer rows.Close()

	refs := []*entities.DoseReference{}
	for rows.Next() {
		ref, err := scanDoseReference(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating dose references", err)
	}

	return refs, nil
}

// FindBest returns the single best reference for a name, or nil when
// nothing matches
func (a *DoseReferenceAdapter) FindBest(ctx context.Context, name string) (*entities.DoseReference, error) {
	refs, err := a.SearchByName(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return refs[0], nil
}

func scanDoseReference(rows *sql.Rows) (*entities.DoseReference, error) {
	ref := &entities.DoseReference{}
	var activeIngredient, standardDosage, frequency, duration sql.NullString
	var route, maxDaily, instructions, dosageForm, strength sql.NullString

	err := rows.Scan(
		&ref.ID,
		&ref.MedicationName,
		&activeIngredient,
		&standardDosage,
		&frequency,
		&duration,
		&route,
		&maxDaily,
		&instructions,
		&dosageForm,
		&strength,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan dose reference", err)
	}

	ref.ActiveIngredient = activeIngredient.String
	ref.StandardDosage = standardDosage.String
	ref.Frequency = frequency.String
	ref.Duration = duration.String
	ref.Route = route.String
	ref.MaxDailyDose = maxDaily.String
	ref.Instructions = instructions.String
	ref.DosageForm = dosageForm.String
	ref.Strength = strength.String

	return ref, nil
}
