package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// TermWriter defines the catalog write operations used by the handler
type TermWriter interface {
	SaveTerm(ctx context.Context, term *entities.Term) error
	RecordSelection(ctx context.Context, doctorID, termID string)
	ListFrequent(ctx context.Context, doctorID string, category entities.TermCategory, limit int) ([]*entities.Term, error)
}

// TermHandler handles catalog term writes and frequent-term lookups
type TermHandler struct {
	service TermWriter
}

// NewTermHandler creates a new term handler
func NewTermHandler(service TermWriter) *TermHandler {
	return &TermHandler{
		service: service,
	}
}

type saveTermRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Composition string `json:"composition"`
	Strength    string `json:"strength"`
	DosageForm  string `json:"dosage_form"`
}

// SaveTerm handles POST /api/medicines. The pad auto-saves medicines
// the doctor typed that no source knew about.
func (h *TermHandler) SaveTerm(w http.ResponseWriter, r *http.Request) {
	var payload saveTermRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	category := entities.TermCategory(payload.Category)
	if category == "" {
		category = entities.CategoryMedicine
	}

	term := &entities.Term{
		Name:        strings.TrimSpace(payload.Name),
		Category:    category,
		Brand:       payload.Brand,
		Composition: payload.Composition,
		Strength:    payload.Strength,
		DosageForm:  payload.DosageForm,
		IsActive:    true,
	}

	if err := h.service.SaveTerm(r.Context(), term); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to save term")
		return
	}

	respondWithJSON(w, http.StatusCreated, term)
}

type selectionRequest struct {
	DoctorID string `json:"doctor_id"`
	TermID   string `json:"term_id"`
}

// RecordSelection handles POST /api/medicines/selection
func (h *TermHandler) RecordSelection(w http.ResponseWriter, r *http.Request) {
	var payload selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.DoctorID == "" || payload.TermID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor_id and term_id are required")
		return
	}

	h.service.RecordSelection(r.Context(), payload.DoctorID, payload.TermID)

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// ListFrequent handles GET /api/medicines/frequent
func (h *TermHandler) ListFrequent(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter 'doctor_id' is required")
		return
	}

	category := entities.TermCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = entities.CategoryMedicine
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	terms, err := h.service.ListFrequent(r.Context(), doctorID, category, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list frequent terms")
		return
	}

	respondWithJSON(w, http.StatusOK, terms)
}
