package memory

import (
	"context"

	"github.com/riskibarqy/match-history/internal/domain/performance"
	"github.com/riskibarqy/match-history/internal/domain/shot"
)

type ShotRepository struct {
	db *Database
}

func NewShotRepository(db *Database) *ShotRepository {
	return &ShotRepository{db: db}
}

func (r *ShotRepository) ReplaceForMatch(_ context.Context, matchRecordID int64, events []shot.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rows := make([]shot.Event, len(events))
	for i, e := range events {
		e.MatchRecordID = matchRecordID
		rows[i] = e
	}
	r.db.shots[matchRecordID] = rows
	return nil
}

func (r *ShotRepository) ListByMatch(_ context.Context, matchRecordID int64) ([]shot.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append([]shot.Event(nil), r.db.shots[matchRecordID]...), nil
}

type PerformanceRepository struct {
	db *Database
}

func NewPerformanceRepository(db *Database) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

func (r *PerformanceRepository) ReplaceForMatch(_ context.Context, matchRecordID int64, records []performance.Record) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rows := make([]performance.Record, len(records))
	for i, rec := range records {
		rec.MatchRecordID = matchRecordID
		rows[i] = rec
	}
	r.db.performances[matchRecordID] = rows
	return nil
}

func (r *PerformanceRepository) ListByMatch(_ context.Context, matchRecordID int64) ([]performance.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append([]performance.Record(nil), r.db.performances[matchRecordID]...), nil
}
