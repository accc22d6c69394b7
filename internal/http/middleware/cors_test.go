package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveCORS(origins []string, req *http.Request) (*httptest.ResponseRecorder, *bool) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	CORS(origins)(handler).ServeHTTP(rec, req)
	return rec, &called
}

func TestCORSAllowsCompanionAppOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Origin", "https://app.echomi.in")

	rec, called := serveCORS([]string{"https://app.echomi.in"}, req)

	if !*called {
		t.Fatalf("expected handler to be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.echomi.in" {
		t.Fatalf("expected allow origin header, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("expected allow methods header")
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Origin", "https://evil.example")

	rec, called := serveCORS([]string{"https://app.echomi.in"}, req)

	if !*called {
		t.Fatalf("expected handler to still be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header, got %q", got)
	}
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://anything.example")

	rec, _ := serveCORS([]string{"*"}, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anything.example" {
		t.Fatalf("expected origin echoed back, got %q", got)
	}
}

func TestCORSShortCircuitsPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/admin/orders", nil)
	req.Header.Set("Origin", "https://app.echomi.in")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec, called := serveCORS([]string{"https://app.echomi.in"}, req)

	if *called {
		t.Fatalf("expected preflight to stop at the middleware")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}
