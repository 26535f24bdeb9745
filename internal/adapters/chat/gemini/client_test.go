package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Generate_ReturnsFirstCandidateText(t *testing.T) {
	var gotPath, gotKey string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Errorf("unexpected request shape: %#v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(generateResponse{
			Candidates: []struct {
				Content content `json:"content"`
			}{
				{Content: content{Parts: []part{{Text: "Stay "}, {Text: "hydrated."}}}},
			},
		})
	}))
	defer ts.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	text, err := c.Generate(context.Background(), "any advice?")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "Stay hydrated." {
		t.Fatalf("expected joined candidate text, got %q", text)
	}
	if !strings.Contains(gotPath, ":generateContent") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
}

func TestClient_Generate_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if _, err := c.Generate(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestClient_Generate_EmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if _, err := c.Generate(context.Background(), "hello"); err != ErrEmptyReply {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}

func TestClient_Generate_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if _, err := c.Generate(context.Background(), "hello"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
