package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/matchdetail"
	"github.com/riskibarqy/match-history/internal/domain/performance"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/fixedpoint"
	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/shopspring/decimal"
)

type PerformanceExtraction struct {
	Stored          int
	NonParticipants int
	Malformed       int
}

// PerformanceExtractor derives per-player rows for both sides of a record.
type PerformanceExtractor struct {
	users        user.Repository
	performances performance.Repository
	logger       *logging.Logger
}

func NewPerformanceExtractor(users user.Repository, performances performance.Repository, logger *logging.Logger) *PerformanceExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &PerformanceExtractor{users: users, performances: performances, logger: logger}
}

func (e *PerformanceExtractor) Extract(ctx context.Context, record match.Record) (PerformanceExtraction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PerformanceExtractor.Extract")
	defer span.End()

	detail, err := matchdetail.Decode(record.RawPayload)
	if err != nil {
		return PerformanceExtraction{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	ouids := make([]string, 0, len(detail.Sides))
	for _, side := range detail.Sides {
		ouids = append(ouids, side.OUID)
	}
	known, err := e.users.ListByOUIDs(ctx, ouids)
	if err != nil {
		return PerformanceExtraction{}, fmt.Errorf("list side users: %w", err)
	}
	userIDs := make(map[string]int64, len(known))
	for _, u := range known {
		userIDs[u.OUID] = u.ID
	}

	var report PerformanceExtraction
	rows := make([]performance.Record, 0, 36)
	for _, side := range detail.Sides {
		var opponent performance.OpponentTotals
		if other, ok := detail.Opponent(side.OUID); ok && other.Shoot != nil {
			opponent = performance.OpponentTotals{
				Known:     true,
				Effective: other.Shoot.EffectiveShootTotal,
				Goals:     other.Shoot.GoalTotal,
			}
		}

		var sideUserID *int64
		if id, ok := userIDs[side.OUID]; ok {
			sideUserID = &id
		}

		sideRows, sideReport := BuildPerformances(record.ID, sideUserID, side, opponent)
		if sideReport.Malformed > 0 {
			e.logger.WarnContext(ctx, "skipped malformed player entries", "match_record_id", record.ID, "side_ouid", side.OUID, "count", sideReport.Malformed)
		}
		rows = append(rows, sideRows...)
		report.NonParticipants += sideReport.NonParticipants
		report.Malformed += sideReport.Malformed
	}

	if err := e.performances.ReplaceForMatch(ctx, record.ID, rows); err != nil {
		return PerformanceExtraction{}, fmt.Errorf("replace player performances: %w", err)
	}
	report.Stored = len(rows)
	return report, nil
}

type performanceKey struct {
	playerID int64
	position int
}

// BuildPerformances turns one side's player list into rows, dropping bench
// entries, entries without a player id and repeated (player, position) pairs.
func BuildPerformances(matchRecordID int64, userID *int64, side matchdetail.Side, opponent performance.OpponentTotals) ([]performance.Record, PerformanceExtraction) {
	var report PerformanceExtraction
	out := make([]performance.Record, 0, len(side.Players))
	seen := make(map[performanceKey]struct{}, len(side.Players))

	for _, p := range side.Players {
		if p.SpID <= 0 || p.Position < 0 {
			report.Malformed++
			continue
		}
		key := performanceKey{playerID: p.SpID, position: p.Position}
		if _, dup := seen[key]; dup {
			report.Malformed++
			continue
		}

		status := performance.DecodeStatus(p.Status)
		if !performance.Participated(status) {
			report.NonParticipants++
			continue
		}
		seen[key] = struct{}{}

		out = append(out, performance.Record{
			MatchRecordID: matchRecordID,
			UserID:        userID,
			SideOUID:      side.OUID,
			PlayerID:      p.SpID,
			Position:      p.Position,
			Grade:         p.Grade,
			Rating:        fixedpoint.RoundHalfUp(decimal.NewFromFloat(status.Rating), fixedpoint.PercentScale),
			Counters:      status.Counters,
			Derived:       performance.Derive(status, p.Position, opponent),
		})
	}
	return out, report
}
