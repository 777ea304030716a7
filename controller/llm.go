package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// llmClient wraps the chat-completion API behind an explicitly constructed
// client instead of a package-level singleton.
type llmClient struct {
	apiKey string
	model  string
	http   *http.Client
}

func newLLMClient(apiKey, model string) *llmClient {
	return &llmClient{
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Complete sends the full conversation to the model and returns the reply.
// Every failure comes back as an error; the caller decides how to degrade.
func (c *llmClient) Complete(ctx context.Context, history []llmMessage) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errors.New("chat completion api key is not configured")
	}
	payload := map[string]interface{}{
		"model":    c.model,
		"messages": history,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
