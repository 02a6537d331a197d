package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newChatServer(t *testing.T, content string, capture *ChatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Fatalf("decode request: %v", err)
			}
		}
		resp := map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestChat(t *testing.T) {
	var captured ChatRequest
	srv := newChatServer(t, "分析结果", &captured)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "deepseek-chat")
	got, err := c.Chat([]Message{{Role: "user", Content: "你好"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "分析结果" {
		t.Errorf("expected 分析结果, got %s", got)
	}
	if captured.Model != "deepseek-chat" {
		t.Errorf("expected model in request, got %s", captured.Model)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Content != "你好" {
		t.Errorf("unexpected messages: %+v", captured.Messages)
	}
}

func TestChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "deepseek-chat")
	if _, err := c.Chat([]Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "deepseek-chat")
	if _, err := c.Chat([]Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Error("expected error on empty choices")
	}
}

func TestGenerateIndustryReport_PromptContainsData(t *testing.T) {
	var captured ChatRequest
	srv := newChatServer(t, "ok", &captured)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "deepseek-chat")
	if _, err := c.GenerateIndustryReport("银行", 30, `{"avg_change":1.5}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(captured.Messages))
	}
	user := captured.Messages[1].Content
	if !strings.Contains(user, "银行") || !strings.Contains(user, "30") || !strings.Contains(user, "avg_change") {
		t.Errorf("prompt missing industry, window or data: %s", user)
	}
}
