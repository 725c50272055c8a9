package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-history/internal/domain/match"
	qb "github.com/riskibarqy/match-history/internal/platform/querybuilder"
)

var matchRecordColumns = []string{
	"id", "match_id", "user_id", "category", "played_at", "result",
	"goals_for", "goals_against", "penalty_for", "penalty_against",
	"opponent_ouid", "opponent_nickname", "raw_payload", "extracted_at",
	"created_at", "updated_at",
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ExistingMatchIDs(ctx context.Context, userID int64, matchIDs []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("match_id").From("match_records").
		Where(
			qb.Eq("user_id", userID),
			qb.InStrings("match_id", matchIDs),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select existing match ids query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select existing match ids user=%d: %w", userID, err)
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Insert writes a new record. An existing (match_id, user_id) pair, including
// one committed by a concurrent writer, yields match.ErrDuplicate.
func (r *MatchRepository) Insert(ctx context.Context, record match.Record) (match.Record, error) {
	model := matchRecordInsertModel{
		MatchID:          record.MatchID,
		UserID:           record.UserID,
		Category:         string(record.Category),
		PlayedAt:         record.PlayedAt.UTC(),
		Result:           string(record.Result),
		GoalsFor:         record.GoalsFor,
		GoalsAgainst:     record.GoalsAgainst,
		PenaltyFor:       record.PenaltyFor,
		PenaltyAgainst:   record.PenaltyAgainst,
		OpponentOUID:     record.OpponentOUID,
		OpponentNickname: record.OpponentNickname,
		RawPayload:       string(record.RawPayload),
	}

	query, args, err := qb.InsertModel("match_records", model, `ON CONFLICT (match_id, user_id) DO NOTHING
RETURNING id, created_at, updated_at`)
	if err != nil {
		return match.Record{}, fmt.Errorf("build insert match record query: %w", err)
	}

	var row insertedRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) || isUniqueViolation(err) {
			return match.Record{}, match.ErrDuplicate
		}
		return match.Record{}, fmt.Errorf("insert match record match=%s user=%d: %w", record.MatchID, record.UserID, err)
	}

	record.ID = row.ID
	record.CreatedAt = row.CreatedAt
	record.UpdatedAt = row.UpdatedAt
	return record, nil
}

func (r *MatchRepository) GetByKey(ctx context.Context, key match.Key) (match.Record, bool, error) {
	query, args, err := qb.Select(matchRecordColumns...).From("match_records").
		Where(
			qb.Eq("match_id", key.MatchID),
			qb.Eq("user_id", key.UserID),
		).
		ToSQL()
	if err != nil {
		return match.Record{}, false, fmt.Errorf("build select match record by key query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Record, bool, error) {
	query, args, err := qb.Select(matchRecordColumns...).From("match_records").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Record{}, false, fmt.Errorf("build select match record by id query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *MatchRepository) getOne(ctx context.Context, query string, args []any) (match.Record, bool, error) {
	var row matchRecordTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Record{}, false, nil
		}
		return match.Record{}, false, fmt.Errorf("get match record: %w", err)
	}
	return matchRecordFromRow(row), true, nil
}

func (r *MatchRepository) CountByUserCategory(ctx context.Context, userID int64, category match.Category) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("match_records").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("category", string(category)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count match records query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count match records user=%d category=%s: %w", userID, category, err)
	}
	return count, nil
}

func (r *MatchRepository) ListRecent(ctx context.Context, userID int64, category match.Category, limit int) ([]match.Record, error) {
	query, args, err := qb.Select(matchRecordColumns...).From("match_records").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("category", string(category)),
		).
		OrderBy("played_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent match records query: %w", err)
	}

	var rows []matchRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent match records user=%d category=%s: %w", userID, category, err)
	}
	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchRecordFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) MarkExtracted(ctx context.Context, id int64) error {
	query, args, err := qb.Update("match_records").
		SetExpr("extracted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark extracted query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark match record id=%d extracted: %w", id, err)
	}
	return nil
}

func (r *MatchRepository) ListPendingExtraction(ctx context.Context, createdBefore time.Time, limit int) ([]match.Record, error) {
	query, args, err := qb.Select(matchRecordColumns...).From("match_records").
		Where(
			qb.IsNull("extracted_at"),
			qb.Expr("created_at < ?", createdBefore),
		).
		OrderBy("created_at ASC", "id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending extraction query: %w", err)
	}

	var rows []matchRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match records pending extraction: %w", err)
	}
	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchRecordFromRow(row))
	}
	return out, nil
}

func matchRecordFromRow(row matchRecordTableModel) match.Record {
	return match.Record{
		ID:               row.ID,
		MatchID:          row.MatchID,
		UserID:           row.UserID,
		Category:         match.Category(row.Category),
		PlayedAt:         row.PlayedAt,
		Result:           match.Result(row.Result),
		GoalsFor:         row.GoalsFor,
		GoalsAgainst:     row.GoalsAgainst,
		PenaltyFor:       nullIntPtr(row.PenaltyFor),
		PenaltyAgainst:   nullIntPtr(row.PenaltyAgainst),
		OpponentOUID:     row.OpponentOUID,
		OpponentNickname: row.OpponentNickname,
		RawPayload:       row.RawPayload,
		ExtractedAt:      row.ExtractedAt,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
