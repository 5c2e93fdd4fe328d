package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/lacuna/internal/cache"
)

// fakeCache is a map-backed cache for tests; TTLs are ignored
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Clear() error {
	c.data = map[string][]byte{}
	return nil
}

func cacheKeyFor(req Request) string {
	return cache.Key(req.SystemPrompt, req.Prompt)
}

// scriptedProvider returns canned responses in order, one per call
type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return "", fmt.Errorf("no scripted response for call %d", i+1)
}

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

type testResponse struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func (r testResponse) Validate() error {
	if r.Value == "" {
		return fmt.Errorf("empty value")
	}
	return nil
}

func newTestExtractor(p Provider) *Extractor {
	e := NewExtractor(p)
	e.backoff = time.Millisecond
	return e
}

func TestExtract_Success(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{`{"value": "ok", "count": 3}`},
	}

	out, err := Extract[testResponse](context.Background(), newTestExtractor(provider), Request{Prompt: "test"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if out.Value != "ok" || out.Count != 3 {
		t.Errorf("Expected decoded response, got %+v", out)
	}

	if provider.calls != 1 {
		t.Errorf("Expected 1 oracle call, got %d", provider.calls)
	}
}

func TestExtract_RetriesInvalidJSON(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{
			"this is not JSON at all",
			`{"value": "broken`,
			`{"value": "third time"}`,
		},
	}

	out, err := Extract[testResponse](context.Background(), newTestExtractor(provider), Request{Prompt: "test"})
	if err != nil {
		t.Fatalf("Expected success on third attempt, got %v", err)
	}

	if out.Value != "third time" {
		t.Errorf("Expected third response, got %+v", out)
	}

	if provider.calls != 3 {
		t.Errorf("Expected 3 oracle calls, got %d", provider.calls)
	}
}

func TestExtract_RetriesValidationFailure(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{
			`{"value": "", "count": 1}`,
			`{"value": "valid", "count": 2}`,
		},
	}

	out, err := Extract[testResponse](context.Background(), newTestExtractor(provider), Request{Prompt: "test"})
	if err != nil {
		t.Fatalf("Expected success after validation retry, got %v", err)
	}

	if out.Value != "valid" {
		t.Errorf("Expected second response, got %+v", out)
	}
}

func TestExtract_ExhaustsAttempts(t *testing.T) {
	providerErr := errors.New("connection refused")
	provider := &scriptedProvider{
		errs: []error{providerErr, providerErr, providerErr},
	}

	_, err := Extract[testResponse](context.Background(), newTestExtractor(provider), Request{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("Expected *ExtractionError, got %T", err)
	}

	if extractionErr.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", extractionErr.Attempts)
	}

	if !errors.Is(err, providerErr) {
		t.Error("Expected wrapped provider error")
	}

	if provider.calls != 3 {
		t.Errorf("Expected 3 oracle calls, got %d", provider.calls)
	}
}

func TestExtract_JSONEmbeddedInProse(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{
			"Sure! Here is the result you asked for:\n\n```json\n{\"value\": \"embedded\"}\n```\n\nLet me know if you need anything else.",
		},
	}

	out, err := Extract[testResponse](context.Background(), newTestExtractor(provider), Request{Prompt: "test"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if out.Value != "embedded" {
		t.Errorf("Expected embedded JSON to be extracted, got %+v", out)
	}
}

func TestExtract_CacheHitSkipsOracle(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{`{"value": "fresh"}`},
	}

	c := newFakeCache()
	e := NewExtractor(provider, WithCache(c, time.Hour))
	e.backoff = time.Millisecond

	req := Request{Prompt: "cached prompt", SystemPrompt: "system"}

	first, err := Extract[testResponse](context.Background(), e, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := Extract[testResponse](context.Background(), e, req)
	if err != nil {
		t.Fatalf("Expected no error on cached call, got %v", err)
	}

	if first.Value != second.Value {
		t.Errorf("Expected identical cached result, got %q and %q", first.Value, second.Value)
	}

	if provider.calls != 1 {
		t.Errorf("Expected 1 oracle call with cache enabled, got %d", provider.calls)
	}
}

func TestExtract_StaleCacheEntryFallsThrough(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{`{"value": "fresh"}`},
	}

	c := newFakeCache()
	e := NewExtractor(provider, WithCache(c, time.Hour))
	e.backoff = time.Millisecond

	req := Request{Prompt: "prompt"}

	// Pre-poison the cache with an entry that fails validation
	_ = c.Set(cacheKeyFor(req), []byte(`{"value": ""}`), time.Hour)

	out, err := Extract[testResponse](context.Background(), e, req)
	if err != nil {
		t.Fatalf("Expected fallthrough to oracle, got %v", err)
	}

	if out.Value != "fresh" {
		t.Errorf("Expected fresh oracle response, got %+v", out)
	}

	if provider.calls != 1 {
		t.Errorf("Expected 1 oracle call, got %d", provider.calls)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"bare array", `[1, 2, 3]`, `[1, 2, 3]`},
		{"object in prose", `Here you go: {"a": 1} done`, `{"a": 1}`},
		{"nested object", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"braces in strings", `{"a": "}{"}`, `{"a": "}{"}`},
		{"escaped quotes", `{"a": "say \"hi\" {now}"}`, `{"a": "say \"hi\" {now}"}`},
		{"object preferred over array", `[1] {"a": 1}`, `{"a": 1}`},
		{"no JSON", "just some text", ""},
		{"unbalanced", `{"a": 1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.in)
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtract_ContextCancelled(t *testing.T) {
	provider := &scriptedProvider{
		errs: []error{errors.New("transient")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract[testResponse](ctx, newTestExtractor(provider), Request{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}

	if !strings.Contains(err.Error(), "context canceled") && !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context cancellation error, got %v", err)
	}
}
