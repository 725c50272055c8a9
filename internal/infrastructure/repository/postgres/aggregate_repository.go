package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	"github.com/riskibarqy/match-history/internal/platform/fixedpoint"
	"github.com/shopspring/decimal"
)

const playerSummaryLimit = 50

// recentMatchesCTE selects the user's latest window records of a category.
// $1 user id, $2 category, $3 window.
const recentMatchesCTE = `WITH recent AS (
    SELECT id, result, goals_for, goals_against
    FROM match_records
    WHERE user_id = $1 AND category = $2
    ORDER BY played_at DESC, id DESC
    LIMIT $3
)`

const formQuery = recentMatchesCTE + `
SELECT
    COUNT(*) AS matches,
    COUNT(*) FILTER (WHERE result = 'win') AS wins,
    COUNT(*) FILTER (WHERE result = 'draw') AS draws,
    COUNT(*) FILTER (WHERE result = 'lose') AS losses,
    COALESCE(SUM(goals_for), 0) AS goals_for,
    COALESCE(SUM(goals_against), 0) AS goals_against
FROM recent`

const shotBreakdownQuery = recentMatchesCTE + `
SELECT se.result, se.in_penalty_area, COUNT(*) AS total
FROM shot_events se
JOIN recent r ON r.id = se.match_record_id
GROUP BY se.result, se.in_penalty_area`

const recentCountQuery = recentMatchesCTE + `
SELECT COUNT(*) FROM recent`

const playerLinesQuery = recentMatchesCTE + `
SELECT
    pp.player_id,
    COUNT(*) AS appearances,
    COALESCE(SUM(pp.goals), 0) AS goals,
    COALESCE(SUM(pp.assists), 0) AS assists,
    COALESCE(AVG(pp.rating), 0) AS average_rating
FROM player_performances pp
JOIN recent r ON r.id = pp.match_record_id
WHERE pp.user_id = $1
GROUP BY pp.player_id
ORDER BY appearances DESC, goals DESC, pp.player_id
LIMIT $4`

type AggregateRepository struct {
	db *sqlx.DB
}

func NewAggregateRepository(db *sqlx.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

type formRowModel struct {
	Matches      int `db:"matches"`
	Wins         int `db:"wins"`
	Draws        int `db:"draws"`
	Losses       int `db:"losses"`
	GoalsFor     int `db:"goals_for"`
	GoalsAgainst int `db:"goals_against"`
}

type shotBreakdownRowModel struct {
	Result        string `db:"result"`
	InPenaltyArea bool   `db:"in_penalty_area"`
	Total         int    `db:"total"`
}

type playerLineRowModel struct {
	PlayerID      int64           `db:"player_id"`
	Appearances   int             `db:"appearances"`
	Goals         int             `db:"goals"`
	Assists       int             `db:"assists"`
	AverageRating decimal.Decimal `db:"average_rating"`
}

func (r *AggregateRepository) Form(ctx context.Context, userID int64, category match.Category, window int) (aggregate.Form, error) {
	var row formRowModel
	if err := r.db.GetContext(ctx, &row, formQuery, userID, string(category), window); err != nil {
		return aggregate.Form{}, fmt.Errorf("select form user=%d category=%s window=%d: %w", userID, category, window, err)
	}
	return aggregate.Form{
		Matches:      row.Matches,
		Wins:         row.Wins,
		Draws:        row.Draws,
		Losses:       row.Losses,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
	}, nil
}

func (r *AggregateRepository) Shots(ctx context.Context, userID int64, category match.Category, window int) (aggregate.ShotSummary, error) {
	var matches int
	if err := r.db.GetContext(ctx, &matches, recentCountQuery, userID, string(category), window); err != nil {
		return aggregate.ShotSummary{}, fmt.Errorf("count recent matches user=%d: %w", userID, err)
	}

	var rows []shotBreakdownRowModel
	if err := r.db.SelectContext(ctx, &rows, shotBreakdownQuery, userID, string(category), window); err != nil {
		return aggregate.ShotSummary{}, fmt.Errorf("select shot breakdown user=%d category=%s window=%d: %w", userID, category, window, err)
	}

	out := aggregate.ShotSummary{
		Matches: matches,
		ByResult: map[string]int{
			string(shot.ResultGoal):      0,
			string(shot.ResultOnTarget):  0,
			string(shot.ResultOffTarget): 0,
			string(shot.ResultBlocked):   0,
		},
	}
	for _, row := range rows {
		out.Total += row.Total
		out.ByResult[row.Result] += row.Total
		if row.Result != string(shot.ResultGoal) {
			continue
		}
		if row.InPenaltyArea {
			out.GoalsInBox += row.Total
		} else {
			out.GoalsOutside += row.Total
		}
	}
	return out, nil
}

func (r *AggregateRepository) Players(ctx context.Context, userID int64, category match.Category, window int) (aggregate.PlayerSummary, error) {
	var matches int
	if err := r.db.GetContext(ctx, &matches, recentCountQuery, userID, string(category), window); err != nil {
		return aggregate.PlayerSummary{}, fmt.Errorf("count recent matches user=%d: %w", userID, err)
	}

	var rows []playerLineRowModel
	if err := r.db.SelectContext(ctx, &rows, playerLinesQuery, userID, string(category), window, playerSummaryLimit); err != nil {
		return aggregate.PlayerSummary{}, fmt.Errorf("select player lines user=%d category=%s window=%d: %w", userID, category, window, err)
	}

	out := aggregate.PlayerSummary{
		Matches: matches,
		Players: make([]aggregate.PlayerLine, 0, len(rows)),
	}
	for _, row := range rows {
		out.Players = append(out.Players, aggregate.PlayerLine{
			PlayerID:      row.PlayerID,
			Appearances:   row.Appearances,
			Goals:         row.Goals,
			Assists:       row.Assists,
			AverageRating: fixedpoint.RoundHalfUp(row.AverageRating, fixedpoint.PercentScale).StringFixed(fixedpoint.PercentScale),
		})
	}
	return out, nil
}
