package main

import "testing"

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("expected default 1 step, got %d err=%v", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("expected 3 steps, got %d err=%v", got, err)
	}
	for _, raw := range []string{"0", "-2", "x"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestNormalizeDBURL(t *testing.T) {
	in := "postgres://u:p@localhost:5432/match_history?sslmode=disable"

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
	if got := normalizeDBURL(in); got != in {
		t.Fatalf("expected url unchanged, got %q", got)
	}

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")
	if got := normalizeDBURL(in); got == in {
		t.Fatalf("expected disable_prepared_binary_result to be appended")
	}
}
