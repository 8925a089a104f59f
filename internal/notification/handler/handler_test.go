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

	"chainsight/internal/notification/service"
	"chainsight/internal/notification/store"
	"chainsight/internal/platform/middleware"
)

func newNotificationRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(service.New(store.NewInMemoryStore(), service.WithLogger(logger)), logger)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	h.Register(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, companyID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if companyID != "" {
		req.Header.Set("X-Company-ID", companyID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPreferencesRoundTripViaHandlers(t *testing.T) {
	router := newNotificationRouter(t)
	companyID := uuid.New().String()

	rec := doJSON(t, router, http.MethodPut, "/api/v1/companies/me/notifications", companyID, map[string]any{
		"discord_webhook_url": "https://discord.com/api/webhooks/123/token",
		"discord_enabled":     true,
		"notify_critical":     true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating preferences, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/companies/me/notifications", companyID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching preferences, got %d", rec.Code)
	}

	var prefs struct {
		WebhookURL     string `json:"discord_webhook_url"`
		DiscordEnabled bool   `json:"discord_enabled"`
		NotifyCritical bool   `json:"notify_critical"`
		NotifyWarning  bool   `json:"notify_warning"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&prefs); err != nil {
		t.Fatalf("failed to decode preferences: %v", err)
	}
	if !prefs.DiscordEnabled || prefs.WebhookURL != "https://discord.com/api/webhooks/123/token" {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
	if prefs.NotifyWarning {
		t.Fatal("notify_warning should not be set")
	}
}

func TestMissingCompanyIdentityForbidden(t *testing.T) {
	router := newNotificationRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/companies/me/notifications", "", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without identity header, got %d", rec.Code)
	}
}

func TestInvalidCompanyIdentityRejected(t *testing.T) {
	router := newNotificationRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/companies/me/notifications", "not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with malformed identity, got %d", rec.Code)
	}
}

func TestInvalidWebhookRejected(t *testing.T) {
	router := newNotificationRouter(t)
	rec := doJSON(t, router, http.MethodPut, "/api/v1/companies/me/notifications", uuid.New().String(), map[string]any{
		"discord_webhook_url": "ftp://example.com/hook",
		"discord_enabled":     true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid webhook, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConfigurationTestEndpoint(t *testing.T) {
	router := newNotificationRouter(t)
	companyID := uuid.New().String()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/companies/me/notifications/test", companyID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode test result: %v", err)
	}
	if result.Success {
		t.Fatal("expected dry run to fail before configuration")
	}

	doJSON(t, router, http.MethodPut, "/api/v1/companies/me/notifications", companyID, map[string]any{
		"discord_webhook_url": "https://discord.com/api/webhooks/123/token",
		"discord_enabled":     true,
	})
	rec = doJSON(t, router, http.MethodPost, "/api/v1/companies/me/notifications/test", companyID, nil)
	_ = json.NewDecoder(rec.Body).Decode(&result)
	if !result.Success {
		t.Fatalf("expected dry run to succeed, got %+v", result)
	}
}
