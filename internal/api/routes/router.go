package routes

import (
	"net/http"

	"github.com/medscribe/clinic-backend/internal/api/handlers"
	"github.com/medscribe/clinic-backend/internal/api/middleware"
	"github.com/medscribe/clinic-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	suggestionHandler *handlers.SuggestionHandler
	doseHandler       *handlers.DoseHandler
	termHandler       *handlers.TermHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	suggestionHandler *handlers.SuggestionHandler,
	doseHandler *handlers.DoseHandler,
	termHandler *handlers.TermHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		suggestionHandler: suggestionHandler,
		doseHandler:       doseHandler,
		termHandler:       termHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Term search and catalog endpoints
	r.mux.HandleFunc("GET /api/medicines/search", r.suggestionHandler.SearchTerms)
	r.mux.HandleFunc("POST /api/medicines", r.termHandler.SaveTerm)
	r.mux.HandleFunc("POST /api/medicines/selection", r.termHandler.RecordSelection)
	r.mux.HandleFunc("GET /api/medicines/frequent", r.termHandler.ListFrequent)

	// Cross-reference suggestions
	r.mux.HandleFunc("POST /api/suggestions", r.suggestionHandler.GetSuggestions)

	// Dosing endpoints
	r.mux.HandleFunc("GET /api/medicines/dose-defaults", r.doseHandler.GetDoseDefaults)
	r.mux.HandleFunc("POST /api/medicines/defaults", r.doseHandler.RememberDefaults)
	r.mux.HandleFunc("POST /api/prescriptions/quantity", r.doseHandler.CalculateQuantity)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so error responses also carry the headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
