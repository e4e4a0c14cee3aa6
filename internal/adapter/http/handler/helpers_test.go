package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/logiadmin/internal/adapter/http/dto"
	"github.com/iho/logiadmin/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/impersonate/targets?size=50", nil)
	if got := parseIntQuery(req, "size", 10); got != 50 {
		t.Fatalf("expected size=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/impersonate/targets?size=invalid", nil)
	if got := parseIntQuery(req, "size", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "size", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		value  string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "menuId", tt.value)
		got, ok := parseIDParam(req, "menuId")
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("parseIDParam(%q) = %d, %v; want %d, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid credentials", fmt.Errorf("login: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized},
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{"self impersonation", domain.ErrSelfImpersonation, http.StatusBadRequest},
		{"already impersonating", domain.ErrAlreadyImpersonating, http.StatusConflict},
		{"not impersonating", domain.ErrNotImpersonating, http.StatusConflict},
		{"not admin", domain.ErrImpersonationNotAllowed, http.StatusForbidden},
		{"rejected", fmt.Errorf("%w: %w", domain.ErrImpersonationRejected, domain.ErrForbidden), http.StatusForbidden},
		{"rejected by backend 401", fmt.Errorf("%w: %w", domain.ErrImpersonationRejected, domain.ErrUnauthorized), http.StatusForbidden},
		{"wrapped not impersonating", fmt.Errorf("revert: %w", domain.ErrNotImpersonating), http.StatusConflict},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"backend down", domain.ErrBackendUnavailable, http.StatusBadGateway},
		{"malformed", domain.ErrMalformedResponse, http.StatusBadGateway},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
