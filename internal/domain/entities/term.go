package entities

import (
	"strings"
	"time"
)

// TermCategory classifies a clinical term
type TermCategory string

const (
	CategoryMedicine  TermCategory = "medicine"
	CategoryDiagnosis TermCategory = "diagnosis"
	CategorySymptom   TermCategory = "symptom"
)

// Source systems a term can originate from
const (
	SourceCatalog    = "catalog"
	SourceDoseRef    = "dose_ref"
	SourceCodeSystem = "code_system"
	SourceCrossRef   = "cross_ref"
)

// Term represents a named clinical concept (medicine, diagnosis or symptom)
type Term struct {
	ID             string       `json:"id,omitempty" db:"id"`
	Name           string       `json:"name" db:"name"`
	NormalizedName string       `json:"-" db:"normalized_name"`
	Category       TermCategory `json:"category" db:"category"`
	SourceSystem   string       `json:"source" db:"source_system"`
	ExternalCode   string       `json:"external_code,omitempty" db:"external_code"`
	Brand          string       `json:"brand,omitempty" db:"brand"`
	Composition    string       `json:"composition,omitempty" db:"composition"`
	Strength       string       `json:"strength,omitempty" db:"strength"`
	DosageForm     string       `json:"dosage_form,omitempty" db:"dosage_form"`
	GlobalUsage    int          `json:"-" db:"usage_count"`
	DoctorUsage    int          `json:"-" db:"doctor_usage"`
	IsActive       bool         `json:"-" db:"is_active"`
	CreatedAt      time.Time    `json:"-" db:"created_at"`
	UpdatedAt      time.Time    `json:"-" db:"updated_at"`
}

// UsageRecord tracks how often a doctor has selected a term
type UsageRecord struct {
	DoctorID   string    `json:"doctor_id" db:"doctor_id"`
	TermID     string    `json:"term_id" db:"term_id"`
	UsageCount int       `json:"usage_count" db:"usage_count"`
	LastUsedAt time.Time `json:"last_used_at" db:"last_used_at"`
}

// NormalizeTermName produces the dedup key for a term name: lowercase,
// trimmed, inner whitespace collapsed to single spaces.
func NormalizeTermName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
