package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("system", "user")
	b := Key("system", "user")
	if a != b {
		t.Errorf("Expected identical keys, got %q and %q", a, b)
	}

	if a == Key("system", "other") {
		t.Error("Expected different keys for different user prompts")
	}
	if a == Key("other", "user") {
		t.Error("Expected different keys for different system prompts")
	}
}

func TestKey_SeparatorPreventsCollisions(t *testing.T) {
	// "ab" + "c" must not collide with "a" + "bc"
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Expected prompt boundary to affect the key")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, found := c.Get("k")
	if !found {
		t.Fatal("Expected hit after set")
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Expected stored value, got %q", got)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("persisted"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh instance over the same dir sees the entry
	c2 := NewDiskCache(dir, time.Minute)
	got, found := c2.Get("k")
	if !found {
		t.Fatal("Expected hit from new instance over same dir")
	}
	if !bytes.Equal(got, []byte("persisted")) {
		t.Errorf("Expected stored value, got %q", got)
	}
}

func TestDiskCache_ExpiredEntryRemoved(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
	// The entry file was removed on read, so a second get still misses
	if _, found := c.Get("k"); found {
		t.Error("Expected removed entry to stay missing")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed only the disk layer
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set(Key("s", "u"), []byte("from-disk"), time.Minute); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)

	got, found := layered.Get(Key("s", "u"))
	if !found {
		t.Fatal("Expected disk hit through layered cache")
	}
	if !bytes.Equal(got, []byte("from-disk")) {
		t.Errorf("Expected disk value, got %q", got)
	}

	// Promoted to memory: still a hit after the disk entry is gone
	if err := disk.Delete(Key("s", "u")); err != nil {
		t.Fatalf("delete disk entry: %v", err)
	}
	if _, found := layered.Get(Key("s", "u")); !found {
		t.Error("Expected memory-promoted entry to survive disk delete")
	}
}

func TestLayeredCache_DeleteClearsBothLayers(t *testing.T) {
	layered := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	if err := layered.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := layered.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := layered.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}
