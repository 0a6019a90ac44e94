package entities

// CandidateKind distinguishes what a cross-reference mapping points at
type CandidateKind string

const (
	CandidateDiagnosis  CandidateKind = "diagnosis"
	CandidateMedication CandidateKind = "medication"
)

// CrossReferenceMapping associates a symptom or diagnosis with a
// candidate diagnosis or medication. A nil DoctorID marks a global
// mapping; a non-nil one marks a doctor-specific override.
type CrossReferenceMapping struct {
	ID            string        `json:"id,omitempty" db:"id"`
	SourceTerm    string        `json:"source_term" db:"source_term"`
	CandidateTerm string        `json:"candidate_term" db:"candidate_term"`
	CandidateKind CandidateKind `json:"candidate_kind" db:"candidate_kind"`
	CandidateCode string        `json:"candidate_code,omitempty" db:"candidate_code"`
	Brand         string        `json:"brand,omitempty" db:"brand"`
	Composition   string        `json:"composition,omitempty" db:"composition"`
	Dosage        string        `json:"dosage,omitempty" db:"default_dosage"`
	Frequency     string        `json:"frequency,omitempty" db:"default_frequency"`
	Duration      string        `json:"duration,omitempty" db:"default_duration"`
	Priority      int           `json:"priority" db:"priority"`
	UsageCount    int           `json:"usage_count" db:"usage_count"`
	DoctorID      *string       `json:"doctor_id,omitempty" db:"doctor_id"`
}

// IsDoctorSpecific reports whether the mapping belongs to the given doctor
func (m *CrossReferenceMapping) IsDoctorSpecific(doctorID string) bool {
	return m.DoctorID != nil && doctorID != "" && *m.DoctorID == doctorID
}

// MedicationKey identifies a medication line item for dedup and for
// subtracting already-prescribed items from suggestions.
type MedicationKey struct {
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Composition string `json:"composition,omitempty"`
}

// Normalized returns the key with every part run through term normalization
func (k MedicationKey) Normalized() MedicationKey {
	return MedicationKey{
		Name:        NormalizeTermName(k.Name),
		Brand:       NormalizeTermName(k.Brand),
		Composition: NormalizeTermName(k.Composition),
	}
}
