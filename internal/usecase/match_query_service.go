package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/performance"
	"github.com/riskibarqy/match-history/internal/domain/shot"
)

// MatchQueryService serves the derived rows of one stored match record.
type MatchQueryService struct {
	matches      match.Repository
	shots        shot.Repository
	performances performance.Repository
}

func NewMatchQueryService(matches match.Repository, shots shot.Repository, performances performance.Repository) *MatchQueryService {
	return &MatchQueryService{matches: matches, shots: shots, performances: performances}
}

func (s *MatchQueryService) ListShots(ctx context.Context, matchRecordID int64) ([]shot.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.ListShots")
	defer span.End()

	if err := s.ensureRecord(ctx, matchRecordID); err != nil {
		return nil, err
	}
	events, err := s.shots.ListByMatch(ctx, matchRecordID)
	if err != nil {
		return nil, fmt.Errorf("list shot events: %w", err)
	}
	if events == nil {
		events = []shot.Event{}
	}
	return events, nil
}

func (s *MatchQueryService) ListPerformances(ctx context.Context, matchRecordID int64) ([]performance.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchQueryService.ListPerformances")
	defer span.End()

	if err := s.ensureRecord(ctx, matchRecordID); err != nil {
		return nil, err
	}
	records, err := s.performances.ListByMatch(ctx, matchRecordID)
	if err != nil {
		return nil, fmt.Errorf("list player performances: %w", err)
	}
	if records == nil {
		records = []performance.Record{}
	}
	return records, nil
}

func (s *MatchQueryService) ensureRecord(ctx context.Context, matchRecordID int64) error {
	if matchRecordID <= 0 {
		return fmt.Errorf("%w: match record id must be positive", ErrInvalidInput)
	}
	_, found, err := s.matches.GetByID(ctx, matchRecordID)
	if err != nil {
		return fmt.Errorf("get match record: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: match record=%d", ErrNotFound, matchRecordID)
	}
	return nil
}
