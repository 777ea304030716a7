package controller

import (
	"context"
	"testing"
)

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := newLLMClient("", "gpt-5-nano")
	if _, err := client.Complete(context.Background(), []llmMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error with no api key")
	}
	client = newLLMClient("   ", "gpt-5-nano")
	if _, err := client.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error with blank api key")
	}
}
