package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chainsight/internal/company/models"
	"chainsight/internal/company/service"
	dErrors "chainsight/pkg/domain-errors"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register wires the onboarding routes. Mount behind the admin-token
// middleware; onboarding is an operator action.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/companies", h.handleCreate)
	r.Get("/api/v1/companies/{id}", h.handleGet)
}

type createRequest struct {
	Name       string            `json:"name"`
	Industry   string            `json:"industry"`
	Routes     []models.Route    `json:"routes"`
	CargoTypes []string          `json:"cargo_types"`
	AlertPrefs models.AlertPrefs `json:"alert_preferences"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	company, err := h.svc.Create(r.Context(), models.Company{
		Name:       req.Name,
		Industry:   req.Industry,
		Routes:     req.Routes,
		CargoTypes: req.CargoTypes,
		AlertPrefs: req.AlertPrefs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "company id must be a UUID"))
		return
	}

	company, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError && h.logger != nil {
		h.logger.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	}
	writeJSON(w, status, map[string]string{
		"error":             string(code),
		"error_description": err.Error(),
	})
}
