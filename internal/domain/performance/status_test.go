package performance

import "testing"

func TestDecodeStatus_FlatShape(t *testing.T) {
	raw := map[string]any{
		"shoot":          float64(4),
		"effectiveShoot": float64(3),
		"goal":           float64(1),
		"passTry":        float64(30),
		"passSuccess":    float64(27),
		"dribbleTry":     float64(5),
		"dribbleSuccess": float64(4),
		"tackleTry":      float64(3),
		"tackle":         float64(2),
		"intercept":      float64(1),
		"assist":         float64(1),
		"spRating":       7.4,
	}

	s := DecodeStatus(raw)

	if s.Shapes[GroupShooting] != ShapeFlat || s.Shapes[GroupPassing] != ShapeFlat {
		t.Fatalf("unexpected shapes %v", s.Shapes)
	}
	want := Counters{Shots: 4, EffectiveShots: 3, Goals: 1, Assists: 1, PassTry: 30, PassSuccess: 27,
		DribbleTry: 5, DribbleSuccess: 4, TackleTry: 3, TackleSuccess: 2, Intercepts: 1}
	if s.Counters != want {
		t.Fatalf("got %+v, want %+v", s.Counters, want)
	}
	if s.Rating != 7.4 {
		t.Fatalf("unexpected rating %v", s.Rating)
	}
}

func TestDecodeStatus_NestedShape(t *testing.T) {
	raw := map[string]any{
		"shoot":   map[string]any{"total": float64(4), "effective": float64(3), "goal": float64(1)},
		"pass":    map[string]any{"try": float64(30), "success": float64(27)},
		"dribble": map[string]any{"try": "5", "success": float64(4)},
		"tackle":  map[string]any{"try": float64(3), "success": float64(2)},
		"defence": map[string]any{"intercept": float64(1)},
		"assist":  float64(1),
	}

	s := DecodeStatus(raw)

	for _, g := range []Group{GroupShooting, GroupPassing, GroupDribbling, GroupTackling, GroupDefending} {
		if s.Shapes[g] != ShapeNested {
			t.Fatalf("group %s: expected nested, got %s", g, s.Shapes[g])
		}
	}
	want := Counters{Shots: 4, EffectiveShots: 3, Goals: 1, Assists: 1, PassTry: 30, PassSuccess: 27,
		DribbleTry: 5, DribbleSuccess: 4, TackleTry: 3, TackleSuccess: 2, Intercepts: 1}
	if s.Counters != want {
		t.Fatalf("got %+v, want %+v", s.Counters, want)
	}
}

func TestDecodeStatus_MixedShapesPerGroup(t *testing.T) {
	raw := map[string]any{
		"shoot":       float64(2),
		"pass":        map[string]any{"try": float64(10), "success": float64(8)},
		"passTry":     float64(99),
		"passSuccess": float64(99),
	}

	s := DecodeStatus(raw)

	if s.Shapes[GroupShooting] != ShapeFlat {
		t.Fatalf("shooting: expected flat, got %s", s.Shapes[GroupShooting])
	}
	if s.Shapes[GroupPassing] != ShapeNested {
		t.Fatalf("passing: expected nested, got %s", s.Shapes[GroupPassing])
	}
	if s.PassTry != 10 || s.PassSuccess != 8 || s.Shots != 2 {
		t.Fatalf("unexpected counters %+v", s.Counters)
	}
	if s.Shapes[GroupTackling] != ShapeAbsent {
		t.Fatalf("tackling: expected absent, got %s", s.Shapes[GroupTackling])
	}
}

func TestDetectShape_UnknownGroup(t *testing.T) {
	if got := DetectShape(map[string]any{"x": 1.0}, Group("unknown")); got != ShapeAbsent {
		t.Fatalf("expected absent, got %s", got)
	}
}

func TestParticipated(t *testing.T) {
	if Participated(DecodeStatus(map[string]any{"spRating": float64(0)})) {
		t.Fatalf("bench entry must not count as participation")
	}
	if !Participated(DecodeStatus(map[string]any{"spRating": 6.1})) {
		t.Fatalf("rated player participated")
	}
	if !Participated(DecodeStatus(map[string]any{"pass": map[string]any{"try": float64(1)}})) {
		t.Fatalf("player with an action participated")
	}
}
