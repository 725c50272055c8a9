package cronrunner

import (
	"context"
	"testing"

	"github.com/riskibarqy/match-history/internal/platform/logging"
)

func TestRunner_AddRejectsInvalidSpec(t *testing.T) {
	r := New(context.Background(), logging.NewNop())
	if _, err := r.Add("warm-refresh", "not a spec", func(context.Context) {}); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestRunner_AddAcceptsSecondsSpec(t *testing.T) {
	r := New(context.Background(), logging.NewNop())
	if _, err := r.Add("warm-refresh", "0 */5 * * * *", func(context.Context) {}); err != nil {
		t.Fatalf("add job: %v", err)
	}
	r.Start()
	r.Stop()
}
