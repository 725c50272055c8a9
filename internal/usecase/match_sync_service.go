package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

type SyncReport struct {
	Listed     int
	Missing    int
	Fetched    int
	Inserted   int
	Duplicates int
	Failed     int
	Extracted  int
	Queued     int
}

// MatchSyncService runs one fetch-and-store cycle for (user, category).
type MatchSyncService struct {
	fetcher     *MatchFetcher
	store       *MatchStore
	dispatcher  *ExtractionDispatcher
	invalidator *CacheInvalidator
	logger      *logging.Logger
}

func NewMatchSyncService(
	fetcher *MatchFetcher,
	store *MatchStore,
	dispatcher *ExtractionDispatcher,
	invalidator *CacheInvalidator,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchSyncService{
		fetcher:     fetcher,
		store:       store,
		dispatcher:  dispatcher,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *MatchSyncService) Sync(ctx context.Context, u user.User, category match.Category, desired int) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.Sync")
	defer span.End()

	var report SyncReport
	ids, err := s.fetcher.ListMatchIDs(ctx, u, category, desired)
	if err != nil {
		return report, fmt.Errorf("list upstream matches: %w", err)
	}
	report.Listed = len(ids)

	batch, err := s.fetcher.FetchMissing(ctx, u, ids)
	if err != nil {
		return report, fmt.Errorf("fetch missing matches: %w", err)
	}
	report.Missing = batch.Requested - batch.AlreadyStored
	report.Fetched = len(batch.Matches)
	report.Failed = len(batch.Failures)

	// A storage error on one match must not strand the matches already
	// inserted this cycle: they are still dispatched and invalidated below.
	var storeErr error
	inserted := make([]match.Record, 0, len(batch.Matches))
	for _, fetched := range batch.Matches {
		fetched.Category = category
		result, err := s.store.Upsert(ctx, u, fetched)
		if err != nil {
			report.Failed++
			if errors.Is(err, ErrConflict) || errors.Is(err, ErrMalformedPayload) {
				s.logger.WarnContext(ctx, "store match skipped", "user_id", u.ID, "match_id", fetched.MatchID, "error", err)
				continue
			}
			s.logger.ErrorContext(ctx, "store match failed", "user_id", u.ID, "match_id", fetched.MatchID, "error", err)
			if storeErr == nil {
				storeErr = fmt.Errorf("store match %s: %w", fetched.MatchID, err)
			}
			continue
		}
		if !result.Inserted {
			report.Duplicates++
			continue
		}
		inserted = append(inserted, result.Record)
	}
	report.Inserted = len(inserted)

	if len(inserted) > 0 {
		dispatched := s.dispatcher.Dispatch(ctx, inserted)
		report.Extracted = dispatched.Extracted
		report.Queued = dispatched.Queued
		s.invalidator.Invalidate(ctx, u.ID, category)
	}

	s.logger.InfoContext(ctx, "match sync cycle finished",
		"user_id", u.ID,
		"category", category,
		"listed", report.Listed,
		"missing", report.Missing,
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
		"failed", report.Failed,
	)
	return report, storeErr
}
