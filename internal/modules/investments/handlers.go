package investments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
)

// Handler handles investment HTTP requests
type Handler struct {
	store      *Store
	alerts     *AlertBook
	milestones *MilestoneChecker
	reminders  *Reminders
	log        zerolog.Logger
}

// NewHandler creates a new investments handler
func NewHandler(store *Store, alerts *AlertBook, milestones *MilestoneChecker, reminders *Reminders, log zerolog.Logger) *Handler {
	return &Handler{
		store:      store,
		alerts:     alerts,
		milestones: milestones,
		reminders:  reminders,
		log:        log.With().Str("handler", "investments").Logger(),
	}
}

// Routes registers the module's routes on r
func (h *Handler) Routes(r chi.Router) {
	r.Route("/investments", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleAdd)
		r.Post("/{id}/close", h.HandleClose)
		r.Put("/{id}/amount", h.HandleEditAmount)
		r.Delete("/{id}", h.HandleDelete)
	})

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.HandleListAlerts)
		r.Post("/", h.HandleAddAlert)
		r.Delete("/{id}", h.HandleRemoveAlert)
	})

	r.Post("/reminders", h.HandleScheduleReminder)
}

// HandleList returns the full collection, the open/closed projections and
// the wallet balance
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"investments":     h.store.Positions(),
		"openPositions":   h.store.Open(),
		"closedPositions": h.store.Closed(),
		"wallet":          h.store.Wallet(),
	})
}

// HandleAdd opens a new position
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pair         string  `json:"pair"`
		Amount       float64 `json:"amount"`
		InvestedRate float64 `json:"investedRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Pair == "" {
		h.writeError(w, http.StatusBadRequest, "pair is required")
		return
	}

	pos, err := h.store.Add(r.Context(), req.Pair, req.Amount, req.InvestedRate)
	if errors.Is(err, ErrNegativeAmount) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		// Position exists in memory; persistence is degraded, not failed
		h.log.Warn().Err(err).Str("id", pos.ID).Msg("Add persisted with errors")
	}

	// Milestones are re-checked after every collection change
	if err := h.milestones.Check(r.Context(), h.store.Positions()); err != nil {
		h.log.Error().Err(err).Msg("Milestone check failed")
	}

	h.writeJSON(w, http.StatusCreated, pos)
}

// HandleClose closes a position at the supplied rate
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		ClosedRate float64 `json:"closedRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.store.Close(r.Context(), id, req.ClosedRate)
	if errors.Is(err, domain.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Investment not found")
		return
	}
	if err != nil {
		h.log.Warn().Err(err).Str("id", id).Msg("Close persisted with errors")
	}

	if err := h.milestones.Check(r.Context(), h.store.Positions()); err != nil {
		h.log.Error().Err(err).Msg("Milestone check failed")
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// HandleEditAmount sets a position's amount
func (h *Handler) HandleEditAmount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.store.EditAmount(r.Context(), id, req.Amount)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Investment not found")
		return
	case errors.Is(err, ErrNegativeAmount):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Warn().Err(err).Str("id", id).Msg("Edit persisted with errors")
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDelete removes a position
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Investment not found")
		return
	}
	if err != nil {
		h.log.Warn().Err(err).Str("id", id).Msg("Delete persisted with errors")
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleListAlerts returns all rate alerts
func (h *Handler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.List()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, alerts)
}

// HandleAddAlert creates a rate alert
func (h *Handler) HandleAddAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pair      string  `json:"pair"`
		Threshold float64 `json:"threshold"`
		Direction string  `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	alert, err := h.alerts.Add(req.Pair, req.Threshold, domain.AlertDirection(req.Direction))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, alert)
}

// HandleRemoveAlert removes a rate alert by id
func (h *Handler) HandleRemoveAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.alerts.Remove(id)
	if errors.Is(err, domain.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// HandleScheduleReminder registers a recurring investment reminder
func (h *Handler) HandleScheduleReminder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Frequency string `json:"frequency"`
		Hour      *int   `json:"hour"`
		Minute    *int   `json:"minute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	hour, minute := 9, 0
	if req.Hour != nil {
		hour = *req.Hour
	}
	if req.Minute != nil {
		minute = *req.Minute
	}

	if err := h.reminders.Schedule(ReminderFrequency(req.Frequency), hour, minute); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "scheduled"})
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
