package forex

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/clients/exchangerate"
)

// Handler handles forex HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new forex handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "forex").Logger(),
	}
}

// Routes registers the module's routes on r
func (h *Handler) Routes(r chi.Router) {
	r.Route("/forex", func(r chi.Router) {
		r.Get("/rate", h.HandleRate)
		r.Get("/history", h.HandleHistory)
		r.Get("/prediction", h.HandlePrediction)
	})
}

// pairParams reads base/target query params, defaulting to USD/PKR like the
// app's home screen
func pairParams(r *http.Request) (string, string) {
	base := r.URL.Query().Get("base")
	target := r.URL.Query().Get("target")
	if base == "" {
		base = "USD"
	}
	if target == "" {
		target = "PKR"
	}
	return base, target
}

// HandleRate returns the latest rate for a pair
func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	base, target := pairParams(r)

	rate, err := h.service.Rate(r.Context(), base, target)
	if err != nil {
		h.writeRateError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"pair": base + "/" + target,
		"rate": rate,
	})
}

// HandleHistory returns the 7-day series for a pair
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	base, target := pairParams(r)

	history, err := h.service.History(r.Context(), base, target)
	if err != nil {
		h.writeRateError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"pair":    base + "/" + target,
		"history": history,
	})
}

// HandlePrediction returns the trend forecast for a pair
func (h *Handler) HandlePrediction(w http.ResponseWriter, r *http.Request) {
	base, target := pairParams(r)

	forecast, err := h.service.Forecast(r.Context(), base, target)
	if err != nil {
		h.writeRateError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, forecast)
}

// writeRateError maps rate-lookup failures to 502, everything else to 500
func (h *Handler) writeRateError(w http.ResponseWriter, err error) {
	var netErr *exchangerate.NetworkError
	if errors.As(err, &netErr) {
		h.log.Error().Err(err).Msg("Rate provider unavailable")
		h.writeError(w, http.StatusBadGateway, "Rate provider unavailable")
		return
	}
	h.writeError(w, http.StatusInternalServerError, err.Error())
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
