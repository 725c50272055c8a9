package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	"github.com/riskibarqy/match-history/internal/platform/fixedpoint"
	"github.com/shopspring/decimal"
)

const playerSummaryLimit = 50

type AggregateRepository struct {
	db *Database
}

func NewAggregateRepository(db *Database) *AggregateRepository {
	return &AggregateRepository{db: db}
}

func (r *AggregateRepository) Form(_ context.Context, userID int64, category match.Category, window int) (aggregate.Form, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out aggregate.Form
	for _, record := range r.db.recentLocked(userID, category, window) {
		out.Matches++
		out.GoalsFor += record.GoalsFor
		out.GoalsAgainst += record.GoalsAgainst
		switch record.Result {
		case match.ResultWin:
			out.Wins++
		case match.ResultDraw:
			out.Draws++
		case match.ResultLose:
			out.Losses++
		}
	}
	return out, nil
}

func (r *AggregateRepository) Shots(_ context.Context, userID int64, category match.Category, window int) (aggregate.ShotSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := aggregate.ShotSummary{
		ByResult: map[string]int{
			string(shot.ResultGoal):      0,
			string(shot.ResultOnTarget):  0,
			string(shot.ResultOffTarget): 0,
			string(shot.ResultBlocked):   0,
		},
	}
	for _, record := range r.db.recentLocked(userID, category, window) {
		out.Matches++
		for _, e := range r.db.shots[record.ID] {
			out.Total++
			out.ByResult[string(e.Result)]++
			if e.Result != shot.ResultGoal {
				continue
			}
			if e.InPenaltyArea {
				out.GoalsInBox++
			} else {
				out.GoalsOutside++
			}
		}
	}
	return out, nil
}

func (r *AggregateRepository) Players(_ context.Context, userID int64, category match.Category, window int) (aggregate.PlayerSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	type tally struct {
		line   aggregate.PlayerLine
		rating decimal.Decimal
	}
	byPlayer := make(map[int64]*tally)
	out := aggregate.PlayerSummary{}
	for _, record := range r.db.recentLocked(userID, category, window) {
		out.Matches++
		for _, p := range r.db.performances[record.ID] {
			if p.UserID == nil || *p.UserID != userID {
				continue
			}
			t, ok := byPlayer[p.PlayerID]
			if !ok {
				t = &tally{line: aggregate.PlayerLine{PlayerID: p.PlayerID}}
				byPlayer[p.PlayerID] = t
			}
			t.line.Appearances++
			t.line.Goals += p.Goals
			t.line.Assists += p.Assists
			t.rating = t.rating.Add(p.Rating)
		}
	}

	out.Players = make([]aggregate.PlayerLine, 0, len(byPlayer))
	for _, t := range byPlayer {
		avg := t.rating.Div(decimal.NewFromInt(int64(t.line.Appearances)))
		t.line.AverageRating = fixedpoint.RoundHalfUp(avg, fixedpoint.PercentScale).StringFixed(fixedpoint.PercentScale)
		out.Players = append(out.Players, t.line)
	}
	sort.Slice(out.Players, func(i, j int) bool {
		a, b := out.Players[i], out.Players[j]
		if a.Appearances != b.Appearances {
			return a.Appearances > b.Appearances
		}
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		return a.PlayerID < b.PlayerID
	})
	if len(out.Players) > playerSummaryLimit {
		out.Players = out.Players[:playerSummaryLimit]
	}
	return out, nil
}
