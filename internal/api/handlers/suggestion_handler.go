package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/medscribe/clinic-backend/internal/application/services"
	"github.com/medscribe/clinic-backend/internal/domain/entities"
)

// SuggestionSearcher defines the aggregation operations used by the handler
type SuggestionSearcher interface {
	Search(ctx context.Context, query string, category entities.TermCategory, doctorID string, limit int) (*services.SuggestionResult, error)
}

// CrossReferencer defines the cross-reference operations used by the handler
type CrossReferencer interface {
	Suggest(ctx context.Context, inputs []string, doctorID string, exclude []entities.MedicationKey) (*services.CrossReferenceSuggestions, error)
}

// SuggestionHandler handles term search and cross-reference suggestions
type SuggestionHandler struct {
	searcher SuggestionSearcher
	crossRef CrossReferencer
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(searcher SuggestionSearcher, crossRef CrossReferencer) *SuggestionHandler {
	return &SuggestionHandler{
		searcher: searcher,
		crossRef: crossRef,
	}
}

// SearchTerms handles GET /api/medicines/search
func (h *SuggestionHandler) SearchTerms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	category := entities.TermCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = entities.CategoryMedicine
	}
	switch category {
	case entities.CategoryMedicine, entities.CategoryDiagnosis, entities.CategorySymptom:
	default:
		respondWithError(w, http.StatusBadRequest, "invalid category")
		return
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

	doctorID := r.URL.Query().Get("doctor_id")

	result, err := h.searcher.Search(r.Context(), query, category, doctorID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to search terms")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

type suggestionsRequest struct {
	Inputs   []string                 `json:"inputs"`
	DoctorID string                   `json:"doctor_id"`
	Exclude  []entities.MedicationKey `json:"exclude"`
}

// GetSuggestions handles POST /api/suggestions
func (h *SuggestionHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	var payload suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.crossRef.Suggest(r.Context(), payload.Inputs, payload.DoctorID, payload.Exclude)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load suggestions")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
