package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// DoseResolver defines the dose resolution operations used by the handler
type DoseResolver interface {
	Resolve(ctx context.Context, termName, doctorID string) (*entities.DoseDefaults, error)
	Remember(ctx context.Context, override *entities.DoctorDoseOverride) error
	Quantity(frequency, duration string) int
	TaperedQuantity(steps []entities.TaperingStep) (int, string)
}

// DoseHandler handles dosing default resolution and quantity calculation
type DoseHandler struct {
	resolver DoseResolver
}

// NewDoseHandler creates a new dose handler
func NewDoseHandler(resolver DoseResolver) *DoseHandler {
	return &DoseHandler{
		resolver: resolver,
	}
}

// GetDoseDefaults handles GET /api/medicines/dose-defaults
func (h *DoseHandler) GetDoseDefaults(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter 'name' is required")
		return
	}
	doctorID := r.URL.Query().Get("doctor_id")

	defaults, err := h.resolver.Resolve(r.Context(), name, doctorID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to resolve dose defaults")
		return
	}

	respondWithJSON(w, http.StatusOK, defaults)
}

type rememberDefaultsRequest struct {
	DoctorID     string `json:"doctor_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Timing       string `json:"timing"`
	Instructions string `json:"instructions"`
	Quantity     int    `json:"quantity"`
}

// RememberDefaults handles POST /api/medicines/defaults
func (h *DoseHandler) RememberDefaults(w http.ResponseWriter, r *http.Request) {
	var payload rememberDefaultsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.DoctorID == "" || strings.TrimSpace(payload.Name) == "" {
		respondWithError(w, http.StatusBadRequest, "doctor_id and name are required")
		return
	}

	override := &entities.DoctorDoseOverride{
		DoctorID:     payload.DoctorID,
		TermName:     payload.Name,
		Dosage:       payload.Dosage,
		Frequency:    payload.Frequency,
		Duration:     payload.Duration,
		Timing:       payload.Timing,
		Instructions: payload.Instructions,
		Quantity:     payload.Quantity,
	}

	if err := h.resolver.Remember(r.Context(), override); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to save defaults")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type quantityRequest struct {
	Frequency     string                  `json:"frequency"`
	Duration      string                  `json:"duration"`
	TaperingSteps []entities.TaperingStep `json:"tapering_steps"`
}

type quantityResponse struct {
	Quantity  int    `json:"quantity"`
	Narrative string `json:"narrative,omitempty"`
}

// CalculateQuantity handles POST /api/prescriptions/quantity. A request
// with tapering steps ignores the plain frequency/duration pair.
func (h *DoseHandler) CalculateQuantity(w http.ResponseWriter, r *http.Request) {
	var payload quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if len(payload.TaperingSteps) > 0 {
		quantity, narrative := h.resolver.TaperedQuantity(payload.TaperingSteps)
		respondWithJSON(w, http.StatusOK, quantityResponse{
			Quantity:  quantity,
			Narrative: narrative,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, quantityResponse{
		Quantity: h.resolver.Quantity(payload.Frequency, payload.Duration),
	})
}
