package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func completionBody(model, content string) string {
	payload := map[string]any{
		"model": model,
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func newTestAIClient(t *testing.T, baseURL string) AIClient {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", baseURL)
	t.Setenv("OPENAI_CHAT_MODEL", "model-a")
	t.Setenv("OPENAI_FALLBACK_MODELS", "model-b,model-c")
	t.Setenv("OPENAI_MAX_RETRIES", "0")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "5")

	client, err := NewAIClient(newTestLogger(t))
	if err != nil {
		t.Fatalf("NewAIClient: %v", err)
	}
	return client
}

func TestAIClientModelChainIsConfigured(t *testing.T) {
	client := newTestAIClient(t, "http://localhost:0")
	models := client.Models()
	want := []string{"model-a", "model-b", "model-c"}
	if len(models) != len(want) {
		t.Fatalf("got %d models, want %d", len(models), len(want))
	}
	for i := range want {
		if models[i] != want[i] {
			t.Errorf("models[%d] = %q, want %q", i, models[i], want[i])
		}
	}
}

func TestAIClientFallsBackOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		atomic.AddInt32(&calls, 1)
		if req.Model == "model-a" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(req.Model, "fallback answer")))
	}))
	defer srv.Close()

	client := newTestAIClient(t, srv.URL)
	completion, err := client.Chat(context.Background(), []AIMessage{{Role: "user", Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if completion.Model != "model-b" {
		t.Errorf("got model %q, want model-b", completion.Model)
	}
	if completion.Content != "fallback answer" {
		t.Errorf("got content %q", completion.Content)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("got %d upstream calls, want 2", got)
	}
}

func TestAIClientDoesNotFallBackOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer srv.Close()

	client := newTestAIClient(t, srv.URL)
	if _, err := client.Chat(context.Background(), []AIMessage{{Role: "user", Content: "hi"}}, nil); err == nil {
		t.Fatalf("Chat should fail on a 400")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("a non-retryable error must not walk the chain, got %d calls", got)
	}
}

func TestAIClientExhaustsChain(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestAIClient(t, srv.URL)
	if _, err := client.Chat(context.Background(), []AIMessage{{Role: "user", Content: "hi"}}, nil); err == nil {
		t.Fatalf("Chat should fail when every model is rate limited")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("got %d upstream calls, want one per model", got)
	}
}

func TestAIClientRejectsEmptyMessages(t *testing.T) {
	client := newTestAIClient(t, "http://localhost:0")
	if _, err := client.Chat(context.Background(), nil, nil); err == nil {
		t.Errorf("Chat with no messages should fail")
	}
}
