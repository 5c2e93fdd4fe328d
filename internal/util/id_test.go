package util

import (
	"strings"
	"testing"
)

func TestNewID_Prefix(t *testing.T) {
	id := NewID("paper")

	if !strings.HasPrefix(id, "paper_") {
		t.Errorf("Expected paper_ prefix, got %q", id)
	}

	suffix := strings.TrimPrefix(id, "paper_")
	if len(suffix) != 32 {
		t.Errorf("Expected 32-char suffix, got %d chars", len(suffix))
	}
	if strings.Contains(suffix, "-") {
		t.Errorf("Expected dashes stripped, got %q", suffix)
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewID("claim")
		if seen[id] {
			t.Fatalf("Duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
