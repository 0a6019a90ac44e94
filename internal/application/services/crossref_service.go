package services

import (
	"context"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/medscribe/clinic-backend/internal/domain/repositories"
)

// DiagnosisCandidate is a suggested diagnosis for the entered symptoms
type DiagnosisCandidate struct {
	Name           string `json:"name"`
	Code           string `json:"code,omitempty"`
	Priority       int    `json:"priority"`
	UsageCount     int    `json:"usage_count"`
	DoctorSpecific bool   `json:"doctor_specific"`
}

// MedicationCandidate is a suggested medication, carrying the mapping's
// default dosing so the pad can prefill the line item
type MedicationCandidate struct {
	Name           string `json:"name"`
	Brand          string `json:"brand,omitempty"`
	Composition    string `json:"composition,omitempty"`
	Dosage         string `json:"dosage,omitempty"`
	Frequency      string `json:"frequency,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Priority       int    `json:"priority"`
	UsageCount     int    `json:"usage_count"`
	DoctorSpecific bool   `json:"doctor_specific"`
}

// CrossReferenceSuggestions holds ranked candidates for both kinds
type CrossReferenceSuggestions struct {
	Diagnoses   []DiagnosisCandidate  `json:"diagnoses"`
	Medications []MedicationCandidate `json:"medications"`
}

// CrossReferenceService suggests diagnoses and medications from the
// symptoms and diagnoses already entered on the pad
type CrossReferenceService struct {
	repo repositories.CrossReferenceRepository
}

// NewCrossReferenceService creates a new cross-reference service
func NewCrossReferenceService(repo repositories.CrossReferenceRepository) *CrossReferenceService {
	return &CrossReferenceService{
		repo: repo,
	}
}

// Suggest returns ranked diagnosis and medication candidates for the
// given input terms. The doctor's own mappings rank strictly above
// global ones; within a tier, priority then usage decides. An unknown
// doctor simply gets the global tier.
func (s *CrossReferenceService) Suggest(ctx context.Context, inputs []string, doctorID string, exclude []entities.MedicationKey) (*CrossReferenceSuggestions, error) {
	result := &CrossReferenceSuggestions{
		Diagnoses:   []DiagnosisCandidate{},
		Medications: []MedicationCandidate{},
	}
	if len(inputs) == 0 {
		return result, nil
	}

	mappings, err := s.repo.FindBySourceTerms(ctx, inputs)
	if err != nil {
		return nil, err
	}

	// The repository returns each tier internally ordered by priority
	// then usage; partitioning keeps that order within each tier.
	var doctorTier, globalTier []*entities.CrossReferenceMapping
	for _, m := range mappings {
		switch {
		case m.DoctorID == nil:
			globalTier = append(globalTier, m)
		case m.IsDoctorSpecific(doctorID):
			doctorTier = append(doctorTier, m)
		}
		// Other doctors' mappings are dropped entirely
	}

	excludeSet := make(map[entities.MedicationKey]bool, len(exclude))
	for _, key := range exclude {
		excludeSet[key.Normalized()] = true
	}

	seenDiagnoses := make(map[string]bool)
	seenMedications := make(map[entities.MedicationKey]bool)

	for _, tier := range [][]*entities.CrossReferenceMapping{doctorTier, globalTier} {
		for _, m := range tier {
			doctorSpecific := m.DoctorID != nil
			switch m.CandidateKind {
			case entities.CandidateDiagnosis:
				key := m.CandidateCode
				if key == "" {
					key = entities.NormalizeTermName(m.CandidateTerm)
				}
				if key == "" || seenDiagnoses[key] {
					continue
				}
				seenDiagnoses[key] = true
				result.Diagnoses = append(result.Diagnoses, DiagnosisCandidate{
					Name:           m.CandidateTerm,
					Code:           m.CandidateCode,
					Priority:       m.Priority,
					UsageCount:     m.UsageCount,
					DoctorSpecific: doctorSpecific,
				})

			case entities.CandidateMedication:
				key := entities.MedicationKey{
					Name:        m.CandidateTerm,
					Brand:       m.Brand,
					Composition: m.Composition,
				}.Normalized()
				if key.Name == "" || seenMedications[key] || excludeSet[key] {
					continue
				}
				seenMedications[key] = true
				result.Medications = append(result.Medications, MedicationCandidate{
					Name:           m.CandidateTerm,
					Brand:          m.Brand,
					Composition:    m.Composition,
					Dosage:         m.Dosage,
					Frequency:      m.Frequency,
					Duration:       m.Duration,
					Priority:       m.Priority,
					UsageCount:     m.UsageCount,
					DoctorSpecific: doctorSpecific,
				})
			}
		}
	}

	return result, nil
}
