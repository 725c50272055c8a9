package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-history/internal/domain/performance"
	qb "github.com/riskibarqy/match-history/internal/platform/querybuilder"
)

var performanceColumns = []string{
	"match_record_id", "user_id", "side_ouid", "player_id", "position", "grade", "rating",
	"shots", "effective_shots", "goals", "assists", "pass_try", "pass_success",
	"dribble_try", "dribble_success", "tackle_try", "tackle_success", "intercepts",
	"block_try", "blocks", "yellow_cards", "red_cards",
	"shot_accuracy", "pass_accuracy", "dribble_success_rate", "tackle_success_rate",
	"approx_saves", "save_rate",
}

type PerformanceRepository struct {
	db *sqlx.DB
}

func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

func (r *PerformanceRepository) ReplaceForMatch(ctx context.Context, matchRecordID int64, records []performance.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player performances: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("player_performances").
		Where(qb.Eq("match_record_id", matchRecordID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player performances query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete player performances match_record=%d: %w", matchRecordID, err)
	}

	if len(records) > 0 {
		models := make([]playerPerformanceInsertModel, 0, len(records))
		for _, rec := range records {
			models = append(models, performanceInsertModelFrom(matchRecordID, rec))
		}
		insertQuery, insertArgs, err := qb.InsertModels("player_performances", models, "")
		if err != nil {
			return fmt.Errorf("build insert player performances query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert player performances match_record=%d: %w", matchRecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player performances tx: %w", err)
	}
	return nil
}

func (r *PerformanceRepository) ListByMatch(ctx context.Context, matchRecordID int64) ([]performance.Record, error) {
	query, args, err := qb.Select(performanceColumns...).From("player_performances").
		Where(qb.Eq("match_record_id", matchRecordID)).
		OrderBy("side_ouid", "position", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player performances query: %w", err)
	}

	var rows []playerPerformanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player performances match_record=%d: %w", matchRecordID, err)
	}

	out := make([]performance.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, performanceFromRow(row))
	}
	return out, nil
}

func performanceInsertModelFrom(matchRecordID int64, rec performance.Record) playerPerformanceInsertModel {
	return playerPerformanceInsertModel{
		MatchRecordID:      matchRecordID,
		UserID:             rec.UserID,
		SideOUID:           rec.SideOUID,
		PlayerID:           rec.PlayerID,
		Position:           rec.Position,
		Grade:              rec.Grade,
		Rating:             rec.Rating,
		Shots:              rec.Shots,
		EffectiveShots:     rec.EffectiveShots,
		Goals:              rec.Goals,
		Assists:            rec.Assists,
		PassTry:            rec.PassTry,
		PassSuccess:        rec.PassSuccess,
		DribbleTry:         rec.DribbleTry,
		DribbleSuccess:     rec.DribbleSuccess,
		TackleTry:          rec.TackleTry,
		TackleSuccess:      rec.TackleSuccess,
		Intercepts:         rec.Intercepts,
		BlockTry:           rec.BlockTry,
		Blocks:             rec.Blocks,
		YellowCards:        rec.YellowCards,
		RedCards:           rec.RedCards,
		ShotAccuracy:       rec.ShotAccuracy,
		PassAccuracy:       rec.PassAccuracy,
		DribbleSuccessRate: rec.DribbleSuccessRate,
		TackleSuccessRate:  rec.TackleSuccessRate,
		ApproxSaves:        rec.ApproxSaves,
		SaveRate:           rec.SaveRate,
	}
}

func performanceFromRow(row playerPerformanceTableModel) performance.Record {
	return performance.Record{
		MatchRecordID: row.MatchRecordID,
		UserID:        nullInt64Ptr(row.UserID),
		SideOUID:      row.SideOUID,
		PlayerID:      row.PlayerID,
		Position:      row.Position,
		Grade:         row.Grade,
		Rating:        row.Rating,
		Counters: performance.Counters{
			Shots:          row.Shots,
			EffectiveShots: row.EffectiveShots,
			Goals:          row.Goals,
			Assists:        row.Assists,
			PassTry:        row.PassTry,
			PassSuccess:    row.PassSuccess,
			DribbleTry:     row.DribbleTry,
			DribbleSuccess: row.DribbleSuccess,
			TackleTry:      row.TackleTry,
			TackleSuccess:  row.TackleSuccess,
			Intercepts:     row.Intercepts,
			BlockTry:       row.BlockTry,
			Blocks:         row.Blocks,
			YellowCards:    row.YellowCards,
			RedCards:       row.RedCards,
		},
		Derived: performance.Derived{
			ShotAccuracy:       nullDecimalPtr(row.ShotAccuracy),
			PassAccuracy:       nullDecimalPtr(row.PassAccuracy),
			DribbleSuccessRate: nullDecimalPtr(row.DribbleSuccessRate),
			TackleSuccessRate:  nullDecimalPtr(row.TackleSuccessRate),
			ApproxSaves:        nullIntPtr(row.ApproxSaves),
			SaveRate:           nullDecimalPtr(row.SaveRate),
		},
	}
}
