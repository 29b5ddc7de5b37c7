package budget

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles budget HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new budget handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "budget").Logger(),
	}
}

// Routes registers the module's routes on r
func (h *Handler) Routes(r chi.Router) {
	r.Route("/budget", func(r chi.Router) {
		r.Get("/", h.HandleGetSummary)
		r.Put("/income", h.HandleSetIncome)
		r.Put("/categories", h.HandleSetCategory)
		r.Delete("/categories/{category}", h.HandleRemoveCategory)
		r.Get("/history", h.HandleGetHistory)
		r.Post("/history", h.HandleSaveSnapshot)
		r.Get("/totals", h.HandleGetTotals)
	})
}

// HandleGetSummary returns the working month with derived totals
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// HandleSetIncome sets the working month's income
func (h *Handler) HandleSetIncome(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Income float64 `json:"income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.SetIncome(req.Income); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleSetCategory adds or updates an expense category
func (h *Handler) HandleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req ExpenseCategory
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == "" {
		h.writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	if err := h.service.SetCategoryAmount(req.Category, req.Amount); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleRemoveCategory deletes an expense category
func (h *Handler) HandleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	if err := h.service.RemoveCategory(category); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// HandleGetHistory returns all saved monthly snapshots
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

// HandleSaveSnapshot saves the working month into the history
func (h *Handler) HandleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month"`
	}
	// Body is optional; empty month means the current one
	_ = json.NewDecoder(r.Body).Decode(&req)

	entry, err := h.service.SaveToHistory(req.Month)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, entry)
}

// HandleGetTotals returns per-month aggregates for the trend chart
func (h *Handler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.MonthlyTotals()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, totals)
}

// Helper methods

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
