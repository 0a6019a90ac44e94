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
	"github.com/medscribe/clinic-backend/pkg/dosage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDoseResolver struct {
	defaults   *entities.DoseDefaults
	err        error
	remembered *entities.DoctorDoseOverride
}

func (s *stubDoseResolver) Resolve(ctx context.Context, termName, doctorID string) (*entities.DoseDefaults, error) {
	return s.defaults, s.err
}

func (s *stubDoseResolver) Remember(ctx context.Context, override *entities.DoctorDoseOverride) error {
	s.remembered = override
	return s.err
}

func (s *stubDoseResolver) Quantity(frequency, duration string) int {
	return dosage.CalculateQuantity(frequency, duration)
}

func (s *stubDoseResolver) TaperedQuantity(steps []entities.TaperingStep) (int, string) {
	converted := make([]dosage.Step, 0, len(steps))
	for _, step := range steps {
		converted = append(converted, dosage.Step{
			StepNumber:   step.StepNumber,
			Dose:         step.Dose,
			Frequency:    step.Frequency,
			DurationDays: step.DurationDays,
		})
	}
	return dosage.CalculateTaperedQuantity(converted), dosage.ScheduleNarrative(converted)
}

func TestDoseHandler_GetDoseDefaults_Success(t *testing.T) {
	resolver := &stubDoseResolver{defaults: &entities.DoseDefaults{
		Dosage:    "650mg",
		Frequency: "1-0-1",
		Duration:  "5 days",
		Quantity:  10,
	}}
	handler := handlers.NewDoseHandler(resolver)

	req := httptest.NewRequest("GET", "/api/medicines/dose-defaults?name=Paracetamol+650&doctor_id=doc-1", nil)
	w := httptest.NewRecorder()

	handler.GetDoseDefaults(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entities.DoseDefaults
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "1-0-1", response.Frequency)
	assert.Equal(t, 10, response.Quantity)
}

func TestDoseHandler_GetDoseDefaults_MissingName(t *testing.T) {
	handler := handlers.NewDoseHandler(&stubDoseResolver{})

	req := httptest.NewRequest("GET", "/api/medicines/dose-defaults", nil)
	w := httptest.NewRecorder()

	handler.GetDoseDefaults(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoseHandler_GetDoseDefaults_EmptyDefaultsStillOK(t *testing.T) {
	handler := handlers.NewDoseHandler(&stubDoseResolver{defaults: &entities.DoseDefaults{}})

	req := httptest.NewRequest("GET", "/api/medicines/dose-defaults?name=Unknownicillin", nil)
	w := httptest.NewRecorder()

	handler.GetDoseDefaults(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entities.DoseDefaults
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.IsEmpty())
}

func TestDoseHandler_RememberDefaults(t *testing.T) {
	resolver := &stubDoseResolver{}
	handler := handlers.NewDoseHandler(resolver)

	body := `{"doctor_id":"doc-1","name":"Paracetamol 650","timing":"after food"}`
	req := httptest.NewRequest("POST", "/api/medicines/defaults", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.RememberDefaults(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resolver.remembered)
	assert.Equal(t, "after food", resolver.remembered.Timing)
	assert.Equal(t, "Paracetamol 650", resolver.remembered.TermName)
}

func TestDoseHandler_RememberDefaults_MissingDoctor(t *testing.T) {
	handler := handlers.NewDoseHandler(&stubDoseResolver{})

	body := `{"name":"Paracetamol 650"}`
	req := httptest.NewRequest("POST", "/api/medicines/defaults", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.RememberDefaults(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoseHandler_CalculateQuantity_Plain(t *testing.T) {
	handler := handlers.NewDoseHandler(&stubDoseResolver{})

	body := `{"frequency":"1-0-1","duration":"5 days"}`
	req := httptest.NewRequest("POST", "/api/prescriptions/quantity", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.CalculateQuantity(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(10), response["quantity"])
}

func TestDoseHandler_CalculateQuantity_Tapering(t *testing.T) {
	handler := handlers.NewDoseHandler(&stubDoseResolver{})

	body := `{"tapering_steps":[
		{"step_number":1,"dose":"10mg","frequency":"Once daily","duration_days":5},
		{"step_number":2,"dose":"5mg","frequency":"Once daily","duration_days":5}
	]}`
	req := httptest.NewRequest("POST", "/api/prescriptions/quantity", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.CalculateQuantity(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(10), response["quantity"])
	assert.Equal(t, "10mg Once daily for 5 days, Then 5mg Once daily for 5 days", response["narrative"])
}

func TestDoseHandler_CalculateQuantity_UnparseableReturnsZero(t *testing.T) {
	handler := handlers.NewDoseHandler(&stubDoseResolver{})

	body := `{"frequency":"apply liberally","duration":"as needed"}`
	req := httptest.NewRequest("POST", "/api/prescriptions/quantity", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.CalculateQuantity(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(0), response["quantity"])
}
