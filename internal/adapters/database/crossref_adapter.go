package database

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medscribe/clinic-backend/pkg/errors"
)

// CrossReferenceAdapter implements the CrossReferenceRepository interface
type CrossReferenceAdapter struct {
	client *postgres.Client
}

// NewCrossReferenceAdapter creates a new cross-reference adapter
func NewCrossReferenceAdapter(client *postgres.Client) repositories.CrossReferenceRepository {
	return &CrossReferenceAdapter{
		client: client,
	}
}

// FindBySourceTerms returns every mapping whose normalized source term
// matches any of the given terms, global and doctor-specific alike. The
// service layer tiers and ranks them.
func (a *CrossReferenceAdapter) FindBySourceTerms(ctx context.Context, terms []string) ([]*entities.CrossReferenceMapping, error) {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		if n := entities.NormalizeTermName(term); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return []*entities.CrossReferenceMapping{}, nil
	}

	q := `
		SELECT id, source_term, candidate_term, candidate_kind,
			candidate_code, brand, composition, default_dosage,
			default_frequency, default_duration, priority, usage_count,
			doctor_id
		FROM cross_references
		WHERE LOWER(source_term) = ANY($1)
		ORDER BY priority DESC, usage_count DESC
	`

	rows, err := a.client.DB().QueryContext(ctx, q, pq.Array(normalized))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query cross references", err)
	}
	defer rows.Close()

	mappings := []*entities.CrossReferenceMapping{}
	for rows.Next() {
		mapping := &entities.CrossReferenceMapping{}
		var code, brand, composition, dosage, frequency, duration sql.NullString
		var doctorID sql.NullString

		err := rows.Scan(
			&mapping.ID,
			&mapping.SourceTerm,
			&mapping.CandidateTerm,
			&mapping.CandidateKind,
			&code,
			&brand,
			&composition,
			&dosage,
			&frequency,
			&duration,
			&mapping.Priority,
			&mapping.UsageCount,
			&doctorID,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan cross reference", err)
		}

		mapping.CandidateCode = code.String
		mapping.Brand = brand.String
		mapping.Composition = composition.String
		mapping.Dosage = dosage.String
		mapping.Frequency = frequency.String
		mapping.Duration = duration.String
		if doctorID.Valid {
			id := doctorID.String
			mapping.DoctorID = &id
		}

		mappings = append(mappings, mapping)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating cross references", err)
	}

	return mappings, nil
}
