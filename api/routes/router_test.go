package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flexbnb/flexbnb-backend/pkg/config"
	pkgerrors "github.com/flexbnb/flexbnb-backend/pkg/errors"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "flexbnb-test"
	return NewRouter(cfg, nil, nil, nil, nil, Services{})
}

func TestRouterHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if env := rec.Header().Get("X-FlexBnB-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}

	var payload types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
}

func TestRouterServesMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterProtectsAuthenticatedSurfaces(t *testing.T) {
	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/me"},
		{http.MethodPost, "/api/v1/pools"},
		{http.MethodGet, "/api/v1/pools/mine"},
		{http.MethodGet, "/api/v1/roommates/profile"},
		{http.MethodGet, "/api/v1/reservations"},
		{http.MethodGet, "/api/v1/host/dashboard"},
		{http.MethodGet, "/api/v1/itineraries"},
	}

	router := testRouter()
	for _, tc := range protected {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, rec.Code)
		}
		var payload types.ErrorEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("%s %s: decode envelope: %v", tc.method, tc.path, err)
		}
		if payload.Error.Code != string(pkgerrors.CodeUnauthorized) {
			t.Fatalf("%s %s: expected code %s got %s", tc.method, tc.path, pkgerrors.CodeUnauthorized, payload.Error.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
