package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/matchdetail"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

const (
	defaultFetchWorkerCount = 8
	defaultPageSize         = 100
)

type MatchFetcherConfig struct {
	WorkerCount int
	PageSize    int
}

// FetchedMatch is a decoded upstream document with its original bytes.
type FetchedMatch struct {
	MatchID string
	Raw     []byte
	Detail  matchdetail.Detail
	// Category is the list the id came from; empty means read it from the
	// document's match type.
	Category match.Category
}

type FetchFailure struct {
	MatchID string
	Err     error
}

type FetchBatch struct {
	Requested int
	// AlreadyStored counts ids skipped by the membership check.
	AlreadyStored int
	Matches       []FetchedMatch
	Failures      []FetchFailure
}

// MatchFetcher retrieves the match details a user is missing with a bounded
// number of concurrent upstream requests.
type MatchFetcher struct {
	provider    GameStatsProvider
	matches     match.Repository
	workerCount int
	pageSize    int
	logger      *logging.Logger
}

func NewMatchFetcher(provider GameStatsProvider, matches match.Repository, cfg MatchFetcherConfig, logger *logging.Logger) *MatchFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.WorkerCount
	if workers <= 0 {
		workers = defaultFetchWorkerCount
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &MatchFetcher{
		provider:    provider,
		matches:     matches,
		workerCount: workers,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// ListMatchIDs pages through the upstream list until desired ids were seen or
// a short page ends it.
func (f *MatchFetcher) ListMatchIDs(ctx context.Context, u user.User, category match.Category, desired int) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFetcher.ListMatchIDs")
	defer span.End()

	if desired <= 0 {
		return nil, nil
	}

	out := make([]string, 0, desired)
	seen := make(map[string]struct{}, desired)
	for offset := 0; len(out) < desired; {
		limit := min(f.pageSize, desired-len(out))
		page, err := f.provider.ListMatchIDs(ctx, u.OUID, category, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("list match ids page offset=%d: %w", offset, err)
		}
		for _, id := range page {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		if len(page) < limit {
			break
		}
		offset += len(page)
	}
	return out, nil
}

// FetchMissing downloads the ids the user does not have yet. Item failures
// are collected on the batch; only the membership query and pool setup can
// fail the call.
func (f *MatchFetcher) FetchMissing(ctx context.Context, u user.User, matchIDs []string) (FetchBatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFetcher.FetchMissing")
	defer span.End()

	batch := FetchBatch{Requested: len(matchIDs)}
	if len(matchIDs) == 0 {
		return batch, nil
	}

	existing, err := f.matches.ExistingMatchIDs(ctx, u.ID, matchIDs)
	if err != nil {
		return FetchBatch{}, fmt.Errorf("check stored match ids: %w", err)
	}

	missing := make([]string, 0, len(matchIDs))
	for _, id := range matchIDs {
		if _, ok := existing[id]; ok {
			batch.AlreadyStored++
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return batch, nil
	}

	type slot struct {
		match FetchedMatch
		err   error
	}
	slots := make([]slot, len(missing))

	pool, err := ants.NewPool(min(f.workerCount, len(missing)))
	if err != nil {
		return FetchBatch{}, fmt.Errorf("create fetch worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, id := range missing {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			slots[i].match, slots[i].err = f.fetchOne(ctx, id)
		}); err != nil {
			workers.Done()
			slots[i].err = fmt.Errorf("submit fetch task: %w", err)
		}
	}
	workers.Wait()

	for i, s := range slots {
		if s.err != nil {
			batch.Failures = append(batch.Failures, FetchFailure{MatchID: missing[i], Err: s.err})
			level := f.logger.WarnContext
			if errors.Is(s.err, ErrNotFound) {
				level = f.logger.InfoContext
			}
			level(ctx, "fetch match detail failed", "user_id", u.ID, "match_id", missing[i], "error", s.err)
			continue
		}
		batch.Matches = append(batch.Matches, s.match)
	}
	return batch, nil
}

func (f *MatchFetcher) fetchOne(ctx context.Context, matchID string) (FetchedMatch, error) {
	raw, err := f.provider.GetMatchDetail(ctx, matchID)
	if err != nil {
		return FetchedMatch{}, err
	}
	detail, err := matchdetail.Decode(raw)
	if err != nil {
		return FetchedMatch{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return FetchedMatch{MatchID: matchID, Raw: raw, Detail: detail}, nil
}
