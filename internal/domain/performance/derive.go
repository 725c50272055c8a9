package performance

import "github.com/riskibarqy/match-history/internal/platform/fixedpoint"

// OpponentTotals are the opposing side's trusted shot totals, used for the
// goalkeeper fields. Known is false when the payload has no opposing summary.
type OpponentTotals struct {
	Known     bool
	Effective int
	Goals     int
}

func Derive(s Status, position int, opponent OpponentTotals) Derived {
	d := Derived{
		ShotAccuracy:       fixedpoint.Percent(s.EffectiveShots, s.Shots),
		PassAccuracy:       fixedpoint.Percent(s.PassSuccess, s.PassTry),
		DribbleSuccessRate: fixedpoint.Percent(s.DribbleSuccess, s.DribbleTry),
		TackleSuccessRate:  fixedpoint.Percent(s.TackleSuccess, s.TackleTry),
	}

	if position != PositionGoalkeeper || !opponent.Known {
		return d
	}

	saves := opponent.Effective - opponent.Goals
	if saves < 0 {
		saves = 0
	}
	d.ApproxSaves = &saves
	d.SaveRate = fixedpoint.Percent(saves, opponent.Effective)
	return d
}
