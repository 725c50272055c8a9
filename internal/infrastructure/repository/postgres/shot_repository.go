package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-history/internal/domain/shot"
	qb "github.com/riskibarqy/match-history/internal/platform/querybuilder"
	"github.com/shopspring/decimal"
)

type ShotRepository struct {
	db *sqlx.DB
}

func NewShotRepository(db *sqlx.DB) *ShotRepository {
	return &ShotRepository{db: db}
}

func (r *ShotRepository) ReplaceForMatch(ctx context.Context, matchRecordID int64, events []shot.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace shot events: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("shot_events").
		Where(qb.Eq("match_record_id", matchRecordID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete shot events query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete shot events match_record=%d: %w", matchRecordID, err)
	}

	if len(events) > 0 {
		models := make([]shotEventInsertModel, 0, len(events))
		for _, e := range events {
			models = append(models, shotEventInsertModel{
				MatchRecordID:   matchRecordID,
				Seq:             e.Seq,
				X:               e.X,
				Y:               e.Y,
				Result:          string(e.Result),
				RawResult:       string(e.RawResult),
				ShotType:        e.ShotType,
				GameTime:        e.GameTime,
				Period:          e.Period,
				InPenaltyArea:   e.InPenaltyArea,
				HitPost:         e.HitPost,
				ShooterPlayerID: e.ShooterPlayerID,
				AssistX:         e.AssistX,
				AssistY:         e.AssistY,
				AssistPlayerID:  e.AssistPlayerID,
			})
		}

		insertQuery, insertArgs, err := qb.InsertModels("shot_events", models, "")
		if err != nil {
			return fmt.Errorf("build insert shot events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert shot events match_record=%d: %w", matchRecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace shot events tx: %w", err)
	}
	return nil
}

func (r *ShotRepository) ListByMatch(ctx context.Context, matchRecordID int64) ([]shot.Event, error) {
	query, args, err := qb.Select(
		"match_record_id", "seq", "x", "y", "result", "raw_result", "shot_type",
		"game_time", "period", "in_penalty_area", "hit_post", "shooter_player_id",
		"assist_x", "assist_y", "assist_player_id",
	).From("shot_events").
		Where(qb.Eq("match_record_id", matchRecordID)).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select shot events query: %w", err)
	}

	var rows []shotEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select shot events match_record=%d: %w", matchRecordID, err)
	}

	out := make([]shot.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, shot.Event{
			MatchRecordID:   row.MatchRecordID,
			Seq:             row.Seq,
			X:               row.X,
			Y:               row.Y,
			Result:          shot.Result(row.Result),
			RawResult:       shot.Result(row.RawResult),
			ShotType:        row.ShotType,
			GameTime:        row.GameTime,
			Period:          row.Period,
			InPenaltyArea:   row.InPenaltyArea,
			HitPost:         row.HitPost,
			ShooterPlayerID: row.ShooterPlayerID,
			AssistX:         nullDecimalPtr(row.AssistX),
			AssistY:         nullDecimalPtr(row.AssistY),
			AssistPlayerID:  nullInt64Ptr(row.AssistPlayerID),
		})
	}
	return out, nil
}

func nullDecimalPtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	out := v.Decimal
	return &out
}
