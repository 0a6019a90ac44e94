package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
	"github.com/medscribe/clinic-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medscribe/clinic-backend/pkg/errors"
)

// TermCatalogAdapter implements the TermCatalogRepository interface
type TermCatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTermCatalogAdapter creates a new term catalog adapter
func NewTermCatalogAdapter(client *postgres.Client) repositories.TermCatalogRepository {
	return &TermCatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Search finds catalog terms matching the query by prefix or substring,
// ranked by the doctor's usage, then prefix match, then name length.
func (a *TermCatalogAdapter) Search(ctx context.Context, query string, category entities.TermCategory, doctorID string, cap int) ([]*entities.Term, error) {
	normalized := entities.NormalizeTermName(query)
	if normalized == "" {
		return []*entities.Term{}, nil
	}
	if cap <= 0 {
		cap = 10
	}

	like := "%" + normalized + "%"
	startsWith := normalized + "%"

	// The usage join drives personalization; terms the doctor has never
	// used still match but sort below their frequently used ones.
	q := `
		SELECT
			t.id, t.name, t.normalized_name, t.category, t.source_system,
			t.external_code, t.brand, t.composition, t.strength, t.dosage_form,
			t.usage_count,
			COALESCE(tu.usage_count, 0) AS doctor_usage
		FROM terms t
		LEFT JOIN term_usage tu ON tu.term_id = t.id AND tu.doctor_id = $1
		WHERE t.is_active = true
			AND t.category = $2
			AND (t.normalized_name LIKE $3
				OR LOWER(t.brand) LIKE $3
				OR LOWER(t.composition) LIKE $3)
		ORDER BY
			COALESCE(tu.usage_count, 0) DESC,
			CASE WHEN t.normalized_name LIKE $4 THEN 0 ELSE 1 END,
			LENGTH(t.normalized_name) ASC
		LIMIT $5
	`

	rows, err := a.client.DB().QueryContext(ctx, q, doctorID, string(category), like, startsWith, cap)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search term catalog", err)
	}
	defer rows.Close()

	terms := []*entities.Term{}
	for rows.Next() {
		term := &entities.Term{}
		var externalCode, brand, composition, strength, dosageForm sql.NullString

		err := rows.Scan(
			&term.ID,
			&term.Name,
			&term.NormalizedName,
			&term.Category,
			&term.SourceSystem,
			&externalCode,
			&brand,
			&composition,
			&strength,
			&dosageForm,
			&term.GlobalUsage,
			&term.DoctorUsage,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan term", err)
		}

		term.ExternalCode = externalCode.String
		term.Brand = brand.String
		term.Composition = composition.String
		term.Strength = strength.String
		term.DosageForm = dosageForm.String
		term.SourceSystem = entities.SourceCatalog
		term.IsActive = true

		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating terms", err)
	}

	return terms, nil
}

// Create adds a custom term; an existing normalized name is a no-op
func (a *TermCatalogAdapter) Create(ctx context.Context, term *entities.Term) error {
	if term.Name == "" {
		return apperrors.NewValidationError("term name is required")
	}
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	term.NormalizedName = entities.NormalizeTermName(term.Name)
	term.IsActive = true

	now := time.Now()
	record := goqu.Record{
		"id":              term.ID,
		"name":            term.Name,
		"normalized_name": term.NormalizedName,
		"category":        string(term.Category),
		"source_system":   entities.SourceCatalog,
		"external_code":   sql.NullString{String: term.ExternalCode, Valid: term.ExternalCode != ""},
		"brand":           sql.NullString{String: term.Brand, Valid: term.Brand != ""},
		"composition":     sql.NullString{String: term.Composition, Valid: term.Composition != ""},
		"strength":        sql.NullString{String: term.Strength, Valid: term.Strength != ""},
		"dosage_form":     sql.NullString{String: term.DosageForm, Valid: term.DosageForm != ""},
		"usage_count":     1,
		"is_active":       true,
		"created_at":      now,
		"updated_at":      now,
	}

	query, args, err := a.db.Insert("terms").
		Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create term", err)
	}

	return nil
}

// IncrementUsage bumps the doctor's counter for a term. Counters only
// bias ranking, so a lost increment under concurrent saves is fine.
func (a *TermCatalogAdapter) IncrementUsage(ctx context.Context, doctorID, termID string) error {
	if doctorID == "" || termID == "" {
		return apperrors.NewValidationError("doctor id and term id are required")
	}

	q := `
		INSERT INTO term_usage (doctor_id, term_id, usage_count, last_used_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (doctor_id, term_id)
		DO UPDATE SET usage_count = term_usage.usage_count + 1, last_used_at = $3
	`

	if _, err := a.client.DB().ExecContext(ctx, q, doctorID, termID, time.Now()); err != nil {
		return apperrors.NewInternalError("failed to increment term usage", err)
	}

	// Global popularity counter, kept loosely in step
	query, args, err := a.db.Update("terms").
		Set(goqu.Record{"usage_count": goqu.L("usage_count + 1")}).
		Where(goqu.Ex{"id": termID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to increment global usage", err)
	}

	return nil
}

// ListAll pages through every active term, for bulk reindexing
func (a *TermCatalogAdapter) ListAll(ctx context.Context, limit, offset int) ([]*entities.Term, error) {
	if limit <= 0 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}

	query, args, err := a.db.From("terms").
		Select("id", "name", "normalized_name", "category", "source_system",
			goqu.COALESCE(goqu.C("brand"), "").As("brand"),
			goqu.COALESCE(goqu.C("composition"), "").As("composition"),
			goqu.COALESCE(goqu.C("strength"), "").As("strength"),
			goqu.COALESCE(goqu.C("dosage_form"), "").As("dosage_form"),
			"usage_count", "is_active").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.C("normalized_name").Asc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list terms", err)
	}
	defer rows.Close()

	terms := []*entities.Term{}
	for rows.Next() {
		term := &entities.Term{}
		err := rows.Scan(
			&term.ID,
			&term.Name,
			&term.NormalizedName,
			&term.Category,
			&term.SourceSystem,
			&term.Brand,
			&term.Composition,
			&term.Strength,
			&term.DosageForm,
			&term.GlobalUsage,
			&term.IsActive,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan term", err)
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating terms", err)
	}

	return terms, nil
}

// ListFrequent returns the doctor's most used terms in a category
func (a *TermCatalogAdapter) ListFrequent(ctx context.Context, doctorID string, category entities.TermCategory, limit int) ([]*entities.Term, error) {
	if limit <= 0 {
		limit = 12
	}

	q := `
		SELECT
			t.id, t.name, t.normalized_name, t.category, t.source_system,
			t.brand, t.composition, t.strength, t.dosage_form,
			t.usage_count, tu.usage_count AS doctor_usage
		FROM term_usage tu
		JOIN terms t ON t.id = tu.term_id
		WHERE tu.doctor_id = $1 AND t.category = $2 AND t.is_active = true
		ORDER BY tu.usage_count DESC, tu.last_used_at DESC
		LIMIT $3
	`

	rows, err := a.client.DB().QueryContext(ctx, q, doctorID, string(category), limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list frequent terms", err)
	}
	defer rows.Close()

	terms := []*entities.Term{}
	for rows.Next() {
		term := &entities.Term{}
		var brand, composition, strength, dosageForm sql.NullString

		err := rows.Scan(
			&term.ID,
			&term.Name,
			&term.NormalizedName,
			&term.Category,
			&term.SourceSystem,
			&brand,
			&composition,
			&strength,
			&dosageForm,
			&term.GlobalUsage,
			&term.DoctorUsage,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan term", err)
		}

		term.Brand = brand.String
		term.Composition = composition.String
		term.Strength = strength.String
		term.DosageForm = dosageForm.String
		term.SourceSystem = entities.SourceCatalog

		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating frequent terms", err)
	}

	return terms, nil
}
