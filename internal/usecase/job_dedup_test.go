package usecase

import (
	"strings"
	"testing"
)

func TestExtractDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	got := extractDedupKey("6123abc:de/f0 1", 42)

	if strings.ContainsAny(got, ":/ ") {
		t.Fatalf("dedup key must not contain unsafe chars, got=%q", got)
	}
	want := "extract-6123abc-de-f0-1-42"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
}

func TestSanitizeDedupSegment_EmptyFallback(t *testing.T) {
	t.Parallel()

	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q want=%q", got, "unknown")
	}
}
