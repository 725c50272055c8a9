// Package matchdetail decodes the upstream match-detail document. The raw
// bytes are stored verbatim on the match record and decoded again on every
// extraction run.
package matchdetail

import (
	"strings"
	"time"
)

type Detail struct {
	MatchID   string `json:"matchId"`
	MatchDate string `json:"matchDate"`
	MatchType int    `json:"matchType"`
	Sides     []Side `json:"matchInfo"`
}

// Side is one participant's view of the match.
type Side struct {
	OUID     string        `json:"ouid"`
	Nickname string        `json:"nickname"`
	Summary  SideSummary   `json:"matchDetail"`
	Players  []Player      `json:"player"`
	Shoot    *ShootSummary `json:"shoot"`
	Shots    []RawShot     `json:"shootDetail"`
}

type SideSummary struct {
	MatchResult   string  `json:"matchResult"`
	MatchEndType  int     `json:"matchEndType"`
	Possession    int     `json:"possession"`
	AverageRating float64 `json:"averageRating"`
	Controller    string  `json:"controller"`
}

// ShootSummary carries the trusted per-side totals. A nil summary on a Side
// means the upstream omitted it.
type ShootSummary struct {
	ShootTotal          int  `json:"shootTotal"`
	EffectiveShootTotal int  `json:"effectiveShootTotal"`
	GoalTotal           int  `json:"goalTotal"`
	GoalTotalDisplay    *int `json:"goalTotalDisplay"`
	ShootOutScore       int  `json:"shootOutScore"`
	OwnGoal             int  `json:"ownGoal"`
}

// DisplayedGoals is the scoreline value, which counts opponent own goals.
func (s *ShootSummary) DisplayedGoals() int {
	if s == nil {
		return 0
	}
	if s.GoalTotalDisplay != nil {
		return *s.GoalTotalDisplay
	}
	return s.GoalTotal
}

// Player keeps the status block undecoded; its field groups come in more than
// one shape and are normalized by the performance package.
type Player struct {
	SpID     int64          `json:"spId"`
	Position int            `json:"spPosition"`
	Grade    int            `json:"spGrade"`
	Status   map[string]any `json:"status"`
}

type RawShot struct {
	GoalTime   int64    `json:"goalTime"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Type       int      `json:"type"`
	Result     int      `json:"result"`
	SpID       int64    `json:"spId"`
	Assist     bool     `json:"assist"`
	AssistSpID *int64   `json:"assistSpId"`
	AssistX    *float64 `json:"assistX"`
	AssistY    *float64 `json:"assistY"`
	InPenalty  bool     `json:"inPenalty"`
	HitPost    bool     `json:"hitPost"`
}

var matchDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// PlayedAt parses MatchDate. Values without a zone are read as UTC.
func (d Detail) PlayedAt() (time.Time, bool) {
	raw := strings.TrimSpace(d.MatchDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
