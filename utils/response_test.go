package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONErr(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONErr(rec, http.StatusBadRequest, "message is required")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":false`) || !strings.Contains(body, `"error":"message is required"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Message string `json:"message"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi"}`))
	if err := DecodeJSON(req, &out); err != nil || out.Message != "hi" {
		t.Fatalf("decode: %v, %+v", err, out)
	}

	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  "))
	if err := DecodeJSON(empty, &out); err != nil {
		t.Fatalf("empty body should decode to nothing: %v", err)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeJSON(bad, &out); err == nil {
		t.Fatal("expected error on truncated json")
	}
}
