package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected non-streaming request")
		}
		if req.Model != "llama3.1:8b" {
			t.Errorf("Expected model llama3.1:8b, got %s", req.Model)
		}
		if req.System != "system prompt" {
			t.Errorf("Expected system prompt, got %q", req.System)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    req.Model,
			Response: `  {"themes": []}  `,
			Done:     true,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.1:8b",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	out, err := provider.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != `{"themes": []}` {
		t.Errorf("Expected trimmed response, got %q", out)
	}
}

func TestOllamaProvider_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), "", "prompt")
	if err == nil {
		t.Fatal("Expected error without model")
	}
	if !strings.Contains(err.Error(), "model must be specified") {
		t.Errorf("Expected model requirement error, got %v", err)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server close")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantErr  bool
		wantName string
	}{
		{"openai", Config{Provider: "openai", APIKey: "k"}, false, "openai"},
		{"anthropic", Config{Provider: "anthropic", APIKey: "k"}, false, "anthropic"},
		{"claude alias", Config{Provider: "claude", APIKey: "k"}, false, "anthropic"},
		{"ollama", Config{Provider: "ollama", Model: "llama3.1:8b"}, false, "ollama"},
		{"empty", Config{Provider: ""}, true, ""},
		{"unknown", Config{Provider: "carrier-pigeon"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Expected provider %s, got %s", tt.wantName, provider.Name())
			}
		})
	}
}
