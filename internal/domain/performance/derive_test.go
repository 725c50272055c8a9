package performance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDerive_Percentages(t *testing.T) {
	s := Status{Counters: Counters{Shots: 3, EffectiveShots: 2, PassTry: 8, PassSuccess: 7}}

	d := Derive(s, 20, OpponentTotals{Known: true, Effective: 5, Goals: 1})

	if d.ShotAccuracy == nil || !d.ShotAccuracy.Equal(decimal.RequireFromString("66.67")) {
		t.Fatalf("unexpected shot accuracy %v", d.ShotAccuracy)
	}
	if d.PassAccuracy == nil || !d.PassAccuracy.Equal(decimal.RequireFromString("87.5")) {
		t.Fatalf("unexpected pass accuracy %v", d.PassAccuracy)
	}
	if d.DribbleSuccessRate != nil || d.TackleSuccessRate != nil {
		t.Fatalf("zero attempts must leave rates nil")
	}
	if d.ApproxSaves != nil || d.SaveRate != nil {
		t.Fatalf("outfield player must not get goalkeeper fields")
	}
}

func TestDerive_GoalkeeperUsesOpponentTotals(t *testing.T) {
	d := Derive(Status{}, PositionGoalkeeper, OpponentTotals{Known: true, Effective: 6, Goals: 2})

	if d.ApproxSaves == nil || *d.ApproxSaves != 4 {
		t.Fatalf("expected 4 saves, got %v", d.ApproxSaves)
	}
	if d.SaveRate == nil || !d.SaveRate.Equal(decimal.RequireFromString("66.67")) {
		t.Fatalf("unexpected save rate %v", d.SaveRate)
	}
}

func TestDerive_GoalkeeperClampsNegativeSaves(t *testing.T) {
	d := Derive(Status{}, PositionGoalkeeper, OpponentTotals{Known: true, Effective: 1, Goals: 3})

	if d.ApproxSaves == nil || *d.ApproxSaves != 0 {
		t.Fatalf("expected 0 saves, got %v", d.ApproxSaves)
	}
}

func TestDerive_GoalkeeperWithoutOpponentSummary(t *testing.T) {
	d := Derive(Status{}, PositionGoalkeeper, OpponentTotals{})
	if d.ApproxSaves != nil {
		t.Fatalf("unknown opponent totals must leave saves nil")
	}
}
