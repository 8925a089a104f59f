// Package handler exposes notification preference endpoints. The calling
// company is identified by the X-Company-ID header; an upstream gateway is
// expected to have authenticated it.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chainsight/internal/notification/models"
	"chainsight/internal/notification/service"
	dErrors "chainsight/pkg/domain-errors"
)

const companyHeader = "X-Company-ID"

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1/companies/me/notifications", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handlePut)
		r.Post("/test", h.handleTest)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	companyID, err := callerCompany(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	prefs, err := h.svc.Get(r.Context(), companyID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

type updateRequest struct {
	DiscordWebhookURL string `json:"discord_webhook_url"`
	DiscordEnabled    bool   `json:"discord_enabled"`
	NotifyCritical    bool   `json:"notify_critical"`
	NotifyHigh        bool   `json:"notify_high"`
	NotifyWarning     bool   `json:"notify_warning"`
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	companyID, err := callerCompany(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	prefs, err := h.svc.Update(r.Context(), companyID, models.Preferences{
		DiscordWebhookURL: req.DiscordWebhookURL,
		DiscordEnabled:    req.DiscordEnabled,
		NotifyCritical:    req.NotifyCritical,
		NotifyHigh:        req.NotifyHigh,
		NotifyWarning:     req.NotifyWarning,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *Handler) handleTest(w http.ResponseWriter, r *http.Request) {
	companyID, err := callerCompany(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.svc.Test(r.Context(), companyID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func callerCompany(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(companyHeader)
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeForbidden, "missing company identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "company id must be a UUID")
	}
	return id, nil
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
