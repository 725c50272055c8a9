package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
)

type MatchRepository struct {
	db *Database
}

func NewMatchRepository(db *Database) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ExistingMatchIDs(_ context.Context, userID int64, matchIDs []string) (map[string]struct{}, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		if _, ok := r.db.recordsByKey[match.Key{MatchID: id, UserID: userID}]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (r *MatchRepository) Insert(_ context.Context, record match.Record) (match.Record, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := match.Key{MatchID: record.MatchID, UserID: record.UserID}
	if _, ok := r.db.recordsByKey[key]; ok {
		return match.Record{}, match.ErrDuplicate
	}

	r.db.nextRecordID++
	now := r.db.now().UTC()
	record.ID = r.db.nextRecordID
	record.RawPayload = append([]byte(nil), record.RawPayload...)
	record.CreatedAt = now
	record.UpdatedAt = now
	r.db.records[record.ID] = record
	r.db.recordsByKey[key] = record.ID
	return record, nil
}

func (r *MatchRepository) GetByKey(_ context.Context, key match.Key) (match.Record, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.recordsByKey[key]
	if !ok {
		return match.Record{}, false, nil
	}
	return r.db.records[id], true, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Record, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	record, ok := r.db.records[id]
	return record, ok, nil
}

func (r *MatchRepository) CountByUserCategory(_ context.Context, userID int64, category match.Category) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, record := range r.db.records {
		if record.UserID == userID && record.Category == category {
			count++
		}
	}
	return count, nil
}

func (r *MatchRepository) ListRecent(_ context.Context, userID int64, category match.Category, limit int) ([]match.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.db.recentLocked(userID, category, limit), nil
}

func (r *MatchRepository) MarkExtracted(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	record, ok := r.db.records[id]
	if !ok {
		return nil
	}
	now := r.db.now().UTC()
	record.ExtractedAt = &now
	record.UpdatedAt = now
	r.db.records[id] = record
	return nil
}

func (r *MatchRepository) ListPendingExtraction(_ context.Context, createdBefore time.Time, limit int) ([]match.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]match.Record, 0)
	for _, record := range r.db.records {
		if record.ExtractedAt == nil && record.CreatedAt.Before(createdBefore) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recentLocked orders like the SQL index: played_at desc, id desc.
func (db *Database) recentLocked(userID int64, category match.Category, limit int) []match.Record {
	out := make([]match.Record, 0)
	for _, record := range db.records {
		if record.UserID == userID && record.Category == category {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
