package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_WithinLimit(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("fourth request should be blocked")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	l := New(1, time.Minute)
	if !l.Allow("a") {
		t.Error("first key should be allowed")
	}
	if !l.Allow("b") {
		t.Error("second key should be independent")
	}
}

func TestAllow_WindowExpires(t *testing.T) {
	l := New(1, 10*time.Millisecond)
	if !l.Allow("a") {
		t.Fatal("first request should pass")
	}
	if l.Allow("a") {
		t.Fatal("second request should be blocked")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("a") {
		t.Error("request after window expiry should pass")
	}
}

func TestByIP(t *testing.T) {
	l := New(1, time.Minute)
	handler := l.ByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "9.8.7.6:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", rec.Code)
	}
}
