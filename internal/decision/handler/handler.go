package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chainsight/internal/audit"
	"chainsight/internal/decision/models"
	"chainsight/internal/decision/service"
	dErrors "chainsight/pkg/domain-errors"
)

// Handler is the thin HTTP layer over the decision service. It delegates to
// the service without embedding business logic so transport concerns remain
// isolated.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register wires the read routes onto the router. These are public to the
// presentation layer.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/v1/decisions/{id}", h.handleGet)
	r.Get("/api/v1/decisions/{id}/view", h.handleView)
	r.Get("/api/v1/decisions/{id}/timeline", h.handleTimeline)
	r.Post("/api/v1/decisions/{id}/verify", h.handleVerify)
	r.Get("/api/v1/decisions/{id}/audit", h.handleAudit)
}

// RegisterAdmin wires the ingest route. Mount it behind the admin-token
// middleware; only the upstream authoring process may ingest.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/api/v1/decisions", h.handleIngest)
}

type ingestResponse struct {
	DecisionID uuid.UUID              `json:"decision_id"`
	Version    int                    `json:"version"`
	Hash       string                 `json:"hash"`
	Signals    []models.QualitySignal `json:"signals,omitempty"`
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var raw models.Decision
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid decision payload"))
		return
	}

	d, hash, signals, err := h.svc.Ingest(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{
		DecisionID: d.ID,
		Version:    d.Version,
		Hash:       hash,
		Signals:    signals,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// ?version= addresses an earlier ingested version; default is latest.
	var d *models.Decision
	if raw := r.URL.Query().Get("version"); raw != "" {
		version, parseErr := strconv.Atoi(raw)
		if parseErr != nil || version < 1 {
			h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "version must be a positive integer"))
			return
		}
		d, err = h.svc.GetVersion(r.Context(), id, version)
	} else {
		d, err = h.svc.Get(r.Context(), id)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.svc.DeriveView(r.Context(), id, requestTime(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	state, err := h.svc.TimelineState(r.Context(), id, requestTime(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type verifyRequest struct {
	ExpectedHash string `json:"expected_hash"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid verify payload"))
		return
	}
	// Anything that is not "sha256:" + 64 lowercase hex is a malformed
	// request, not a failed verification.
	if !audit.ValidHashFormat(req.ExpectedHash) {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "expected_hash must be sha256:<64 lowercase hex>"))
		return
	}

	result, err := h.svc.Verify(r.Context(), id, req.ExpectedHash)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type auditResponse struct {
	Record audit.Record `json:"record"`
	Events []eventView  `json:"events"`
}

type eventView struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ValueUSD  float64   `json:"value_usd,omitempty"`
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rec, events, err := h.svc.AuditTrail(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView{
			Timestamp: e.Timestamp,
			Action:    e.Action,
			Outcome:   e.Outcome,
			RequestID: e.RequestID,
			ValueUSD:  e.ValueUSD,
		})
	}
	writeJSON(w, http.StatusOK, auditResponse{Record: rec, Events: views})
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "decision id must be a UUID")
	}
	return id, nil
}

// requestTime honors an explicit ?now= RFC3339 instant so pollers and tests
// can pin the evaluation time; everything else gets the wall clock.
func requestTime(r *http.Request) time.Time {
	if raw := r.URL.Query().Get("now"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return time.Now()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation to HTTP responses so all
// handlers share one JSON error envelope.
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
