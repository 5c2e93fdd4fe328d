package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/lacuna/internal/util"
)

func TestFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "Lacuna-Test/1.0" {
			t.Errorf("Expected custom User-Agent, got %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>paper</body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "Lacuna-Test/1.0", 1_000_000, nil)

	result, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.ContentType != "text/html" {
		t.Errorf("Expected content type stripped of params, got %q", result.ContentType)
	}
	if !strings.Contains(string(result.Body), "paper") {
		t.Error("Expected response body")
	}
	if result.FinalURL == "" {
		t.Error("Expected final URL")
	}
}

func TestFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "Lacuna-Test/1.0", 1_000_000, nil)

	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404 response")
	}
}

func TestFetcher_BodySizeCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "Lacuna-Test/1.0", 100, nil)

	result, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Body) != 100 {
		t.Errorf("Expected body capped at 100 bytes, got %d", len(result.Body))
	}
}

func TestFetcher_RespectsRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		_, _ = w.Write([]byte("content"))
	}))
	defer server.Close()

	robots := util.NewRobotsChecker("Lacuna-Test/1.0", 5*time.Second)
	f := NewFetcher(5*time.Second, "Lacuna-Test/1.0", 1_000_000, robots)

	// Allowed path succeeds
	if _, err := f.Fetch(context.Background(), server.URL+"/public/paper"); err != nil {
		t.Fatalf("Expected allowed fetch, got %v", err)
	}

	// Disallowed path is rejected before fetching
	_, err := f.Fetch(context.Background(), server.URL+"/private/paper")
	if err == nil {
		t.Fatal("Expected robots.txt rejection")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
}
