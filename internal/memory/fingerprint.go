package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes the deterministic content+type+layer identity
// hash spec.md §4.4 uses for upsert/dedup: normalized (trimmed,
// lowercased, whitespace-collapsed) content joined with type and
// layer, SHA-256 hex encoded.
func Fingerprint(layer Layer, itemType, content string) string {
	normalized := normalizeContent(content)
	h := sha256.New()
	h.Write([]byte(string(layer)))
	h.Write([]byte{0})
	h.Write([]byte(itemType))
	h.Write([]byte{0})
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeContent(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, " ")
}

// NormalizeTags trims, drops blanks, and de-duplicates tags while
// preserving first-occurrence order (§4.4 memory_add).
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampMinZero clamps v to be >= 0.
func ClampMinZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
