package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/mortgage-service/internal/calculator"
	"github.com/Dan9191/mortgage-service/internal/middleware"
	"github.com/Dan9191/mortgage-service/internal/models"
	"github.com/Dan9191/mortgage-service/internal/repository"
	"github.com/Dan9191/mortgage-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type emailRequest struct {
	To string `json:"to"`
}

// Schedule computes a repayment schedule without storing it
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	m, ok := h.decodeMortgage(w, r)
	if !ok {
		return
	}

	calc, err := h.svc.CalculateSchedule(r.Context(), m)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, calc)
}

// KeyRate returns the current key rate including the bank margin
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.KeyRate(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"key_rate": rate.String()})
}

// CreateCalculation computes and stores a schedule for the authenticated user
func (h *Handler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	m, ok := h.decodeMortgage(w, r)
	if !ok {
		return
	}

	calc, err := h.svc.SaveCalculation(r.Context(), middleware.UserID(r.Context()), m)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, calc)
}

// ListCalculations lists the authenticated user's calculations
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	headers, err := h.svc.ListCalculations(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, headers)
}

// GetCalculation returns one stored calculation
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id, ok := calculationID(w, r)
	if !ok {
		return
	}

	calc, err := h.svc.GetCalculation(r.Context(), middleware.UserID(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, calc)
}

// EmailCalculation sends a stored calculation by email
func (h *Handler) EmailCalculation(w http.ResponseWriter, r *http.Request) {
	id, ok := calculationID(w, r)
	if !ok {
		return
	}

	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.EmailCalculation(r.Context(), middleware.UserID(r.Context()), id, req.To); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeMortgage(w http.ResponseWriter, r *http.Request) (models.Mortgage, bool) {
	var m models.Mortgage
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return models.Mortgage{}, false
	}
	return m, true
}

func calculationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid calculation id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, calculator.ErrInvalidMortgage),
		errors.Is(err, calculator.ErrNumericOverflow),
		errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrTampered):
		status = http.StatusConflict
	case errors.Is(err, service.ErrRateUnavailable):
		status = http.StatusBadGateway
	}

	entry := h.log.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(r.Context()),
		"status":     status,
	})
	if status == http.StatusInternalServerError {
		entry.Errorf("Request failed: %v", err)
		http.Error(w, "internal server error", status)
		return
	}
	entry.Warnf("Request rejected: %v", err)
	http.Error(w, err.Error(), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}
