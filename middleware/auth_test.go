package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithDashboard(t *testing.T) {
	var nextCalled bool
	next := func(w http.ResponseWriter, _ *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}
	onError := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}

	h := WithDashboard(func(*http.Request) error { return nil }, onError, next, nil)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if !nextCalled || rec.Code != http.StatusOK {
		t.Fatalf("valid request should pass through, code %d", rec.Code)
	}

	nextCalled = false
	h = WithDashboard(func(*http.Request) error { return errors.New("nope") }, onError, next, nil)
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if nextCalled {
		t.Fatal("invalid request must not reach the handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d", rec.Code)
	}
}
