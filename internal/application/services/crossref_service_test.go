package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/medscribe/clinic-backend/internal/application/services"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCrossRefRepo struct {
	mappings []*entities.CrossReferenceMapping
	err      error
	queried  []string
}

func (s *stubCrossRefRepo) FindBySourceTerms(ctx context.Context, terms []string) ([]*entities.CrossReferenceMapping, error) {
	s.queried = terms
	return s.mappings, s.err
}

func strPtr(v string) *string { return &v }

func TestCrossReferenceService_Suggest_EmptyInputs(t *testing.T) {
	repo := &stubCrossRefRepo{err: errors.New("must not be called")}
	service := services.NewCrossReferenceService(repo)

	result, err := service.Suggest(context.Background(), nil, "doc-1", nil)

	require.NoError(t, err)
	assert.Empty(t, result.Diagnoses)
	assert.Empty(t, result.Medications)
}

func TestCrossReferenceService_Suggest_DoctorTierRanksAboveGlobal(t *testing.T) {
	// Repository order is priority desc within each tier; the global
	// mapping carries the higher priority but must still rank below
	// the doctor's own.
	repo := &stubCrossRefRepo{mappings: []*entities.CrossReferenceMapping{
		{SourceTerm: "fever", CandidateTerm: "Typhoid Fever", CandidateKind: entities.CandidateDiagnosis, Priority: 5},
		{SourceTerm: "fever", CandidateTerm: "Viral Fever", CandidateKind: entities.CandidateDiagnosis, Priority: 1, DoctorID: strPtr("doc-1")},
	}}
	service := services.NewCrossReferenceService(repo)

	result, err := service.Suggest(context.Background(), []string{"fever"}, "doc-1", nil)

	require.NoError(t, err)
	require.Len(t, result.Diagnoses, 2)
	assert.Equal(t, "Viral Fever", result.Diagnoses[0].Name)
	assert.True(t, result.Diagnoses[0].DoctorSpecific)
	assert.Equal(t, "Typhoid Fever", result.Diagnoses[1].Name)
	assert.False(t, result.Diagnoses[1].DoctorSpecific)
}

func TestCrossReferenceService_Suggest_OtherDoctorsMappingsDropped(t *testing.T) {
	repo := &stubCrossRefRepo{mappings: []*entities.CrossReferenceMapping{
		{SourceTerm: "fever", CandidateTerm: "Viral Fever", CandidateKind: entities.CandidateDiagnosis, DoctorID: strPtr("doc-2")},
		{SourceTerm: "fever", CandidateTerm: "Malaria", CandidateKind: entities.CandidateDiagnosis},
	}}
	service := services.NewCrossReferenceService(repo)

	result, err := service.Suggest(context.Background(), []string{"fever"}, "doc-1", nil)

	require.NoError(t, err)
	require.Len(t, result.Diagnoses, 1)
	assert.Equal(t, "Malaria", result.Diagnoses[0].Name)
}

func TestCrossReferenceService_Suggest_UnknownDoctorGetsGlobalTier(t *testing.T) {
	repo := &stubCrossRefRepo{mappings: []*entities.CrossReferenceMapping{
		{SourceTerm: "fever", CandidateTerm: "Viral Fever", CandidateKind: entities.CandidateDiagnosis},
	}}
	service := services.NewCrossReferenceService(repo)

	result, err := service.Suggest(context.Background(), []string{"fever"}, "", nil)

	require.NoError(t, err)
	require.Len(t, result.Diagnoses, 1)
	assert.Equal(t, "Viral Fever", result.Diagnoses[0].Name)
}

func TestCrossReferenceService_Suggest_MedicationDedupAndExclude(t *testing.T) {
	repo := &stubCrossRefRepo{mappings: []*entities.CrossReferenceMapping{
		{SourceTerm: "viral fever", CandidateTerm: "Paracetamol", Brand: "Calpol", CandidateKind: entities.CandidateMedication, Priority: 3},
		{SourceTerm: "headache", CandidateTerm: "paracetamol", Brand: "calpol", CandidateKind: entities.CandidateMedication, Priority: 2},
		{SourceTerm: "viral fever", CandidateTerm: "Ibuprofen", CandidateKind: entities.CandidateMedication, Priority: 1},
		{SourceTerm: "headache", CandidateTerm: "Aspirin", CandidateKind: entities.CandidateMedication, Priority: 1},
	}}
	service := services.NewCrossReferenceService(repo)

	exclude := []entities.MedicationKey{{Name: "Aspirin"}}
	result, err := service.Suggest(context.Background(), []string{"viral fever", "headache"}, "doc-1", exclude)

	require.NoError(t, err)
	require.Len(t, result.Medications, 2)
	assert.Equal(t, "Paracetamol", result.Medications[0].Name)
	assert.Equal(t, "Ibuprofen", result.Medications[1].Name)
}

func TestCrossReferenceService_Suggest_MedicationCarriesDefaults(t *testing.T) {
	repo := &stubCrossRefRepo{mappings: []*entities.CrossReferenceMapping{
		{
			SourceTerm:    "viral fever",
			CandidateTerm: "Paracetamol 650",
			CandidateKind: entities.CandidateMedication,
			Dosage:        "650mg",
			Frequency:     "1-0-1",
			Duration:      "5 days",
		},
	}}
	service := services.NewCrossReferenceService(repo)

	result, err := service.Suggest(context.Background(), []string{"viral fever"}, "doc-1", nil)

	require.NoError(t, err)
	require.Len(t, result.Medications, 1)
	assert.Equal(t, "1-0-1", result.Medications[0].Frequency)
	assert.Equal(t, "5 days", result.Medications[0].Duration)
	assert.Equal(t, "650mg", result.Medications[0].Dosage)
}
