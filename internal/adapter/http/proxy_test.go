package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewFrontendProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Forwarded-Host-Seen", r.Header.Get("X-Forwarded-Host"))
		io.WriteString(w, "frontend:"+r.URL.RequestURI())
	}))
	defer upstream.Close()

	proxy, err := NewFrontendProxy(upstream.URL, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://console.local/admin/orders?page=2", nil)
	proxy.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "frontend:/admin/orders?page=2" {
		t.Fatalf("unexpected body %q", got)
	}
	if got := rec.Header().Get("X-Forwarded-Host-Seen"); got != "console.local" {
		t.Fatalf("expected forwarded host, got %q", got)
	}
}

func TestNewFrontendProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	proxy, err := NewFrontendProxy(url, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestNewFrontendProxyInvalidURL(t *testing.T) {
	for _, target := range []string{"", "localhost:3000", "://bad"} {
		if _, err := NewFrontendProxy(target, zerolog.Nop()); err == nil {
			t.Fatalf("expected %q to be rejected", target)
		}
	}
}
