package aggregate

import (
	"testing"

	"github.com/riskibarqy/match-history/internal/domain/match"
)

func TestKeys_EnumeratesEveryKindAndWindow(t *testing.T) {
	keys := Keys(42, match.CategoryOfficial)

	if len(keys) != len(Kinds())*len(Windows()) {
		t.Fatalf("unexpected key count %d", len(keys))
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate key %s", k)
		}
		seen[k] = struct{}{}
	}
	if _, ok := seen["agg:form:42:official:10"]; !ok {
		t.Fatalf("missing form/10 key in %v", keys)
	}
	if _, ok := seen["agg:players:42:official:100"]; !ok {
		t.Fatalf("missing players/100 key in %v", keys)
	}
}

func TestKeys_ScopedByUserAndCategory(t *testing.T) {
	a := Keys(1, match.CategoryOfficial)
	b := Keys(1, match.CategoryClassic)
	c := Keys(2, match.CategoryOfficial)
	for i := range a {
		if a[i] == b[i] || a[i] == c[i] {
			t.Fatalf("keys must differ across scope: %s", a[i])
		}
	}
}

func TestParseKindAndWindow(t *testing.T) {
	if _, err := ParseKind("shots"); err != nil {
		t.Fatalf("parse shots: %v", err)
	}
	if _, err := ParseKind("xg"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if !ValidWindow(50) || ValidWindow(7) {
		t.Fatalf("unexpected window validation")
	}
}
