package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmitLeadRequiresEmail(t *testing.T) {
	c := &Controller{}
	for _, body := range []string{``, `{}`, `{"email":"  "}`, `{"name":"Asha"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.SubmitLead(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "email is required", resp["error"])
	}
}

func TestRenderTranscript(t *testing.T) {
	got := renderTranscript([]chatMessage{
		{Role: "user", Text: "hi there"},
		{Role: "assistant", Text: "hello!"},
		{Role: "user", Text: "show me your portfolio"},
	})
	want := "User: hi there\nDotswitch Bot: hello!\nUser: show me your portfolio"
	assert.Equal(t, want, got)
}

func TestRenderTranscriptEmpty(t *testing.T) {
	assert.Equal(t, noTranscriptPlaceholder, renderTranscript(nil))
	assert.Equal(t, noTranscriptPlaceholder, renderTranscript([]chatMessage{}))
}

func TestNullableID(t *testing.T) {
	assert.Nil(t, nullableID(""))
	assert.Nil(t, nullableID("  "))
	assert.Equal(t, "abc", nullableID("abc"))
}
