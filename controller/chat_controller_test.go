package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatMessageRequiresMessage(t *testing.T) {
	c := &Controller{}
	for _, body := range []string{``, `{}`, `{"message":"   "}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat/message", strings.NewReader(body))
		rec := httptest.NewRecorder()
		c.ChatMessage(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "message is required", resp["error"])
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "203.0.113.7:51240"
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.4, 203.0.113.7")
	assert.Equal(t, "198.51.100.4", clientIP(req))

	req.Header.Set("X-Forwarded-For", "  198.51.100.9  ")
	assert.Equal(t, "198.51.100.9", clientIP(req))

	bare := httptest.NewRequest(http.MethodPost, "/", nil)
	bare.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(bare))
}

func TestChatResponseShape(t *testing.T) {
	suggestion := contactLeadSuggestion
	resp := chatResponse{
		SessionID:         "s1",
		Messages:          []chatMessage{{Role: "user", Text: "hi"}},
		Links:             []Link{},
		GatedLinks:        []Link{},
		NeedsLeadForLinks: false,
		LeadSuggestion:    &suggestion,
	}
	b, err := json.Marshal(resp)
	assert.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"sessionId":"s1"`)
	assert.Contains(t, s, `"leadSuggestion"`)

	resp.LeadSuggestion = nil
	b, err = json.Marshal(resp)
	assert.NoError(t, err)
	assert.NotContains(t, string(b), "leadSuggestion")
}
