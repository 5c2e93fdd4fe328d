package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a globally unique identifier, optionally prefixed by
// entity kind (e.g. "theme_..." or "gap_...") for debuggability.
func NewID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
