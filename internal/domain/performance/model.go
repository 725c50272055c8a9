package performance

import "github.com/shopspring/decimal"

const PositionGoalkeeper = 0

// Counters are the raw per-player tallies, independent of the upstream shape
// they were read from.
type Counters struct {
	Shots          int
	EffectiveShots int
	Goals          int
	Assists        int
	PassTry        int
	PassSuccess    int
	DribbleTry     int
	DribbleSuccess int
	TackleTry      int
	TackleSuccess  int
	Intercepts     int
	BlockTry       int
	Blocks         int
	YellowCards    int
	RedCards       int
}

func (c Counters) total() int {
	return c.Shots + c.EffectiveShots + c.Goals + c.Assists +
		c.PassTry + c.PassSuccess + c.DribbleTry + c.DribbleSuccess +
		c.TackleTry + c.TackleSuccess + c.Intercepts + c.BlockTry + c.Blocks +
		c.YellowCards + c.RedCards
}

// Derived holds values computed at write time. Nil means the denominator was
// zero or, for goalkeeper fields, that the player is not a goalkeeper.
type Derived struct {
	ShotAccuracy       *decimal.Decimal
	PassAccuracy       *decimal.Decimal
	DribbleSuccessRate *decimal.Decimal
	TackleSuccessRate  *decimal.Decimal
	ApproxSaves        *int
	SaveRate           *decimal.Decimal
}

type Record struct {
	MatchRecordID int64
	UserID        *int64
	SideOUID      string
	PlayerID      int64
	Position      int
	Grade         int
	Rating        decimal.Decimal
	Counters
	Derived
}
