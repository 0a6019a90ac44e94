package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medscribe/clinic-backend/internal/api/handlers"
	"github.com/medscribe/clinic-backend/internal/application/services"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	result   *services.SuggestionResult
	err      error
	query    string
	category entities.TermCategory
	doctorID string
	limit    int
}

func (s *stubSearcher) Search(ctx context.Context, query string, category entities.TermCategory, doctorID string, limit int) (*services.SuggestionResult, error) {
	s.query = query
	s.category = category
	s.doctorID = doctorID
	s.limit = limit
	return s.result, s.err
}

type stubCrossReferencer struct {
	result  *services.CrossReferenceSuggestions
	err     error
	inputs  []string
	exclude []entities.MedicationKey
}

func (s *stubCrossReferencer) Suggest(ctx context.Context, inputs []string, doctorID string, exclude []entities.MedicationKey) (*services.CrossReferenceSuggestions, error) {
	s.inputs = inputs
	s.exclude = exclude
	return s.result, s.err
}

func TestSuggestionHandler_SearchTerms_Success(t *testing.T) {
	searcher := &stubSearcher{result: &services.SuggestionResult{
		Terms: []*entities.Term{
			{Name: "Paracetamol 650", Category: entities.CategoryMedicine, SourceSystem: entities.SourceCatalog},
		},
		DegradedSources: []string{entities.SourceCodeSystem},
	}}
	handler := handlers.NewSuggestionHandler(searcher, &stubCrossReferencer{})

	req := httptest.NewRequest("GET", "/api/medicines/search?q=para&doctor_id=doc-1&limit=5", nil)
	w := httptest.NewRecorder()

	handler.SearchTerms(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "para", searcher.query)
	assert.Equal(t, entities.CategoryMedicine, searcher.category)
	assert.Equal(t, "doc-1", searcher.doctorID)
	assert.Equal(t, 5, searcher.limit)

	var response services.SuggestionResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Terms, 1)
	assert.Equal(t, "Paracetamol 650", response.Terms[0].Name)
	assert.Equal(t, []string{entities.SourceCodeSystem}, response.DegradedSources)
}

func TestSuggestionHandler_SearchTerms_MissingQuery(t *testing.T) {
	handler := handlers.NewSuggestionHandler(&stubSearcher{}, &stubCrossReferencer{})

	req := httptest.NewRequest("GET", "/api/medicines/search", nil)
	w := httptest.NewRecorder()

	handler.SearchTerms(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionHandler_SearchTerms_InvalidCategory(t *testing.T) {
	handler := handlers.NewSuggestionHandler(&stubSearcher{}, &stubCrossReferencer{})

	req := httptest.NewRequest("GET", "/api/medicines/search?q=para&category=procedure", nil)
	w := httptest.NewRecorder()

	handler.SearchTerms(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionHandler_GetSuggestions_Success(t *testing.T) {
	crossRef := &stubCrossReferencer{result: &services.CrossReferenceSuggestions{
		Diagnoses: []services.DiagnosisCandidate{{Name: "Viral Fever"}},
		Medications: []services.MedicationCandidate{
			{Name: "Paracetamol 650", Frequency: "1-0-1", Duration: "5 days"},
		},
	}}
	handler := handlers.NewSuggestionHandler(&stubSearcher{}, crossRef)

	body := `{"inputs":["fever","headache"],"doctor_id":"doc-1","exclude":[{"name":"Aspirin"}]}`
	req := httptest.NewRequest("POST", "/api/suggestions", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.GetSuggestions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"fever", "headache"}, crossRef.inputs)
	require.Len(t, crossRef.exclude, 1)
	assert.Equal(t, "Aspirin", crossRef.exclude[0].Name)

	var response services.CrossReferenceSuggestions
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Medications, 1)
	assert.Equal(t, "1-0-1", response.Medications[0].Frequency)
}

func TestSuggestionHandler_GetSuggestions_BadPayload(t *testing.T) {
	handler := handlers.NewSuggestionHandler(&stubSearcher{}, &stubCrossReferencer{})

	req := httptest.NewRequest("POST", "/api/suggestions", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.GetSuggestions(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
