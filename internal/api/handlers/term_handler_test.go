package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medscribe/clinic-backend/internal/api/handlers"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTermWriter struct {
	saved     []*entities.Term
	selected  []string
	frequent  []*entities.Term
	listErr   error
	saveErr   error
	category  entities.TermCategory
	lastLimit int
}

func (s *stubTermWriter) SaveTerm(ctx context.Context, term *entities.Term) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if term.ID == "" {
		term.ID = "test-id"
	}
	s.saved = append(s.saved, term)
	return nil
}

func (s *stubTermWriter) RecordSelection(ctx context.Context, doctorID, termID string) {
	s.selected = append(s.selected, doctorID+"/"+termID)
}

func (s *stubTermWriter) ListFrequent(ctx context.Context, doctorID string, category entities.TermCategory, limit int) ([]*entities.Term, error) {
	s.category = category
	s.lastLimit = limit
	return s.frequent, s.listErr
}

func TestTermHandler_SaveTerm_Success(t *testing.T) {
	service := &stubTermWriter{}
	handler := handlers.NewTermHandler(service)

	body := `{"name":"  Custom Syrup ","brand":"HouseBrand","strength":"100mg/5ml"}`
	req := httptest.NewRequest("POST", "/api/medicines", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.SaveTerm(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.saved, 1)
	assert.Equal(t, "Custom Syrup", service.saved[0].Name)
	assert.Equal(t, entities.CategoryMedicine, service.saved[0].Category)

	var response entities.Term
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.NotEmpty(t, response.ID)
}

func TestTermHandler_SaveTerm_MissingName(t *testing.T) {
	handler := handlers.NewTermHandler(&stubTermWriter{})

	req := httptest.NewRequest("POST", "/api/medicines", strings.NewReader(`{"brand":"X"}`))
	w := httptest.NewRecorder()

	handler.SaveTerm(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTermHandler_RecordSelection(t *testing.T) {
	service := &stubTermWriter{}
	handler := handlers.NewTermHandler(service)

	body := `{"doctor_id":"doc-1","term_id":"term-9"}`
	req := httptest.NewRequest("POST", "/api/medicines/selection", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.RecordSelection(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"doc-1/term-9"}, service.selected)
}

func TestTermHandler_ListFrequent(t *testing.T) {
	service := &stubTermWriter{frequent: []*entities.Term{
		{Name: "Paracetamol 650", DoctorUsage: 40},
	}}
	handler := handlers.NewTermHandler(service)

	req := httptest.NewRequest("GET", "/api/medicines/frequent?doctor_id=doc-1&limit=5", nil)
	w := httptest.NewRecorder()

	handler.ListFrequent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.CategoryMedicine, service.category)
	assert.Equal(t, 5, service.lastLimit)

	var response []*entities.Term
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "Paracetamol 650", response[0].Name)
}

func TestTermHandler_ListFrequent_MissingDoctor(t *testing.T) {
	handler := handlers.NewTermHandler(&stubTermWriter{})

	req := httptest.NewRequest("GET", "/api/medicines/frequent", nil)
	w := httptest.NewRecorder()

	handler.ListFrequent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
