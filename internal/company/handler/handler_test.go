package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chainsight/internal/company/service"
	"chainsight/internal/company/store"
	"chainsight/internal/platform/middleware"
)

const adminToken = "secret-token"

func newCompanyRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(service.New(store.NewInMemoryStore(), service.WithLogger(logger)), logger)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAdminToken(adminToken, logger))
		h.Register(gr)
	})
	return r
}

func TestOnboardingRequiresAdminToken(t *testing.T) {
	router := newCompanyRouter(t)
	body, _ := json.Marshal(map[string]any{"name": "Meridian Freight"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin token, got %d", rec.Code)
	}
}

func TestOnboardingRoundTrip(t *testing.T) {
	router := newCompanyRouter(t)
	body, _ := json.Marshal(map[string]any{
		"name":        "Meridian Freight",
		"industry":    "electronics",
		"routes":      []map[string]any{{"origin": "Shenzhen", "destination": "Rotterdam", "monthly_teu": 120}},
		"cargo_types": []string{"consumer_electronics"},
		"alert_preferences": map[string]bool{
			"notify_critical": true,
			"notify_high":     true,
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Routes []struct {
			Origin string `json:"origin"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("expected a UUID id, got %q", created.ID)
	}
	if len(created.Routes) != 1 || created.Routes[0].Origin != "Shenzhen" {
		t.Fatalf("unexpected routes %+v", created.Routes)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+created.ID, nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching company, got %d", rec.Code)
	}
}

func TestOnboardingValidatesName(t *testing.T) {
	router := newCompanyRouter(t)
	body, _ := json.Marshal(map[string]any{"name": ""})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", bytes.NewReader(body))
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", rec.Code)
	}
}
