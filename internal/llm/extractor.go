package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/lacuna/internal/cache"
	"github.com/ppiankov/lacuna/internal/worker"
)

const maxAttempts = 3

// Request describes one structured extraction call to the oracle
type Request struct {
	// Prompt is the user prompt sent to the oracle
	Prompt string

	// SystemPrompt is optional and sets the oracle's role
	SystemPrompt string
}

// Validatable is implemented by response schemas. Validate is called
// after JSON decoding; a non-nil error fails the attempt and triggers
// a retry, so oracle output is never trusted structurally.
type Validatable interface {
	Validate() error
}

// ExtractionError is returned after all retry attempts are exhausted.
// It wraps the last attempt's error.
type ExtractionError struct {
	Attempts int
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("structured extraction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor is the sole integration point with the LLM oracle. Every
// pipeline stage is built on top of it and inherits its retry and
// failure semantics.
type Extractor struct {
	provider Provider
	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	backoff  time.Duration
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLimiter bounds the oracle call rate
func WithLimiter(l *worker.Limiter) Option {
	return func(e *Extractor) { e.limiter = l }
}

// WithCache caches validated completions keyed by prompt hash
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(e *Extractor) {
		e.cache = c
		e.cacheTTL = ttl
	}
}

// NewExtractor creates an extractor on top of the given provider
func NewExtractor(provider Provider, opts ...Option) *Extractor {
	e := &Extractor{
		provider: provider,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Provider returns the underlying oracle
func (e *Extractor) Provider() Provider {
	return e.provider
}

// Extract sends the request to the oracle, parses the first JSON value
// out of the response, decodes it into T and validates it. Failed
// attempts are retried up to 3 times with a fixed backoff of
// 1s × attempt number between attempts. There is no partial success:
// either a fully valid T is returned or the call fails as a whole.
func Extract[T Validatable](ctx context.Context, e *Extractor, req Request) (T, error) {
	var zero T
	var lastErr error

	key := cache.Key(req.SystemPrompt, req.Prompt)
	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			if out, err := decode[T](string(data)); err == nil {
				return out, nil
			}
			// Stale or invalid entry; fall through to the oracle.
			_ = e.cache.Delete(key)
		}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return zero, &ExtractionError{Attempts: attempt - 1, Err: ctx.Err()}
			case <-time.After(e.backoff * time.Duration(attempt-1)):
			}
		}

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx, e.provider.Name()); err != nil {
				lastErr = fmt.Errorf("rate limit: %w", err)
				continue
			}
		}

		raw, err := e.provider.Complete(ctx, req.SystemPrompt, req.Prompt)
		if err != nil {
			lastErr = fmt.Errorf("oracle call: %w", err)
			continue
		}

		out, err := decode[T](raw)
		if err != nil {
			lastErr = err
			continue
		}

		if e.cache != nil {
			_ = e.cache.Set(key, []byte(raw), e.cacheTTL)
		}

		return out, nil
	}

	return zero, &ExtractionError{Attempts: maxAttempts, Err: lastErr}
}

// decode extracts the first JSON value from raw, unmarshals and validates it
func decode[T Validatable](raw string) (T, error) {
	var out T

	payload := ExtractJSON(raw)
	if payload == "" {
		return out, fmt.Errorf("no JSON found in response")
	}

	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("parse response JSON: %w", err)
	}

	if err := out.Validate(); err != nil {
		return out, fmt.Errorf("validate response: %w", err)
	}

	return out, nil
}

// ExtractJSON returns the first balanced JSON object in s, or the first
// balanced JSON array if no object is present, or "" if neither exists.
// Brace counting skips string literals and escape sequences.
func ExtractJSON(s string) string {
	if v := balancedSpan(s, '{', '}'); v != "" {
		return v
	}
	return balancedSpan(s, '[', ']')
}

func balancedSpan(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
