package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motordesk/motordesk/pkg/config"
	"github.com/motordesk/motordesk/pkg/model"
)

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func testServer() *Server {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTL = time.Hour
	cfg.Auth.RefreshTokenTTL = 24 * time.Hour
	return NewServer(nil, nil, cfg, zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	server := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var response healthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Fatalf("expected status ok, got %q", response.Status)
	}
}

func TestAPIAuthRequired(t *testing.T) {
	server := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Error != "missing authorization" {
		t.Fatalf("expected missing authorization error, got %q", response.Error)
	}
}

func TestAPIRejectsMalformedBearer(t *testing.T) {
	server := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
	req.Header.Set("Authorization", "Token abc123")
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	server := testServer()

	token, err := server.tokens.GenerateAccessToken(&model.User{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		IsAdmin:   false,
	})
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, recorder.Code)
	}

	var response errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error != "admin access required" {
		t.Fatalf("expected admin access required error, got %q", response.Error)
	}
}

func TestContractListValidatesFilterParams(t *testing.T) {
	server := testServer()

	token, err := server.tokens.GenerateAccessToken(&model.User{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"bad status", "status=UNKNOWN", "invalid status"},
		{"bad customer id", "customer_id=not-a-uuid", "invalid customer_id"},
		{"bad car id", "car_id=not-a-uuid", "invalid car_id"},
		{"bad user id", "user_id=not-a-uuid", "invalid user_id"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts?"+tc.query, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()

		server.Router().ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", tc.name, http.StatusBadRequest, recorder.Code)
		}

		var response errorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatalf("%s: failed to decode response: %v", tc.name, err)
		}
		if response.Error != tc.want {
			t.Fatalf("%s: expected %q error, got %q", tc.name, tc.want, response.Error)
		}
	}
}

func TestAuthUnavailableWithoutSessionStore(t *testing.T) {
	server := testServer()

	for _, path := range []string{"/auth/signup", "/auth/login", "/auth/refresh", "/auth/logout"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		recorder := httptest.NewRecorder()

		server.Router().ServeHTTP(recorder, req)

		if recorder.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusServiceUnavailable, recorder.Code)
		}

		var response errorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
			t.Fatalf("%s: failed to decode response: %v", path, err)
		}
		if response.Error != "session store unavailable" {
			t.Fatalf("%s: expected session store unavailable error, got %q", path, response.Error)
		}
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	server := testServer()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder := httptest.NewRecorder()

	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
}
