package shot

// Summary holds the trusted per-side totals a match reports alongside its
// event list. Effective counts on-target shots including goals.
type Summary struct {
	Goals     int
	Effective int
}

// Reconcile relabels events so the non-blocked ones agree with summary.
//
// Blocked events keep their label and take no goal or on-target slot. When
// summary is nil, or the raw labels already carry exactly the trusted goal
// and on-target counts, the raw labels are returned as-is. Otherwise, walking
// in order, the first Goals non-blocked events become goals, the next
// Effective-Goals become on target and the rest off target.
func Reconcile(raw []Result, summary *Summary) []Result {
	out := make([]Result, len(raw))
	copy(out, raw)
	if summary == nil {
		return out
	}

	var nonBlocked, goals, onTarget int
	for _, r := range raw {
		switch r {
		case ResultBlocked:
			continue
		case ResultGoal:
			goals++
		case ResultOnTarget:
			onTarget++
		}
		nonBlocked++
	}

	wantGoals := clamp(summary.Goals, 0, nonBlocked)
	wantEffective := clamp(summary.Effective, wantGoals, nonBlocked)
	if goals == wantGoals && onTarget == wantEffective-wantGoals {
		return out
	}

	assigned := 0
	for i, r := range raw {
		if r == ResultBlocked {
			continue
		}
		switch {
		case assigned < wantGoals:
			out[i] = ResultGoal
		case assigned < wantEffective:
			out[i] = ResultOnTarget
		default:
			out[i] = ResultOffTarget
		}
		assigned++
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
