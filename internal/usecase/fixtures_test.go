package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/infrastructure/repository/memory"
	statestore "github.com/riskibarqy/match-history/internal/infrastructure/syncstate"
	"github.com/riskibarqy/match-history/internal/platform/cache"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

// stubProvider serves match documents from memory and counts calls.
type stubProvider struct {
	mu        sync.Mutex
	ouids     map[string]string
	lists     map[string][]string
	docs      map[string]string
	failures  map[string]error
	listCalls atomic.Int32
	docCalls  atomic.Int32
	// release, when set, holds every detail call until it is closed.
	release chan struct{}
	// ouidErr, when set, fails every nickname lookup.
	ouidErr error
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		ouids:    make(map[string]string),
		lists:    make(map[string][]string),
		docs:     make(map[string]string),
		failures: make(map[string]error),
	}
}

func (p *stubProvider) GetOUID(_ context.Context, nickname string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ouidErr != nil {
		return "", p.ouidErr
	}
	ouid, ok := p.ouids[nickname]
	if !ok {
		return "", fmt.Errorf("%w: nickname", ErrNotFound)
	}
	return ouid, nil
}

func (p *stubProvider) ListMatchIDs(_ context.Context, ouid string, _ match.Category, offset, limit int) ([]string, error) {
	p.listCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := p.lists[ouid]
	if offset >= len(ids) {
		return []string{}, nil
	}
	end := min(offset+limit, len(ids))
	return append([]string(nil), ids[offset:end]...), nil
}

func (p *stubProvider) GetMatchDetail(ctx context.Context, matchID string) ([]byte, error) {
	p.docCalls.Add(1)
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failures[matchID]; ok {
		return nil, err
	}
	doc, ok := p.docs[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: match", ErrNotFound)
	}
	return []byte(doc), nil
}

func (p *stubProvider) addUser(nickname, ouid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ouids[nickname] = ouid
}

func (p *stubProvider) addMatch(ouid, matchID, doc string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists[ouid] = append(p.lists[ouid], matchID)
	p.docs[matchID] = doc
}

// matchDoc renders a two-sided official match between u-a and u-b. Side a
// scores goalsA with two shots: one goal and one blocked.
func matchDoc(matchID string, playedAt time.Time, goalsA, goalsB int) string {
	resultA, resultB := "draw", "draw"
	switch {
	case goalsA > goalsB:
		resultA, resultB = "win", "lose"
	case goalsA < goalsB:
		resultA, resultB = "lose", "win"
	}
	return strings.NewReplacer(
		"{ID}", matchID,
		"{DATE}", playedAt.UTC().Format("2006-01-02T15:04:05"),
		"{RA}", resultA,
		"{RB}", resultB,
		"{GA}", fmt.Sprint(goalsA),
		"{GB}", fmt.Sprint(goalsB),
	).Replace(`{
  "matchId": "{ID}",
  "matchDate": "{DATE}",
  "matchType": 50,
  "matchInfo": [
    {"ouid": "u-a", "nickname": "Alpha", "matchDetail": {"matchResult": "{RA}"},
     "shoot": {"shootTotal": 2, "effectiveShootTotal": {GA}, "goalTotal": {GA}, "goalTotalDisplay": {GA}},
     "shootDetail": [
       {"goalTime": 600, "x": 0.91234, "y": 0.5, "type": 2, "result": 1, "spId": 101},
       {"goalTime": 16777816, "x": 0.7, "y": 0.4, "type": 1, "result": 4, "spId": 102}
     ],
     "player": [
       {"spId": 100, "spPosition": 0, "spGrade": 5, "status": {"spRating": 6.5}},
       {"spId": 101, "spPosition": 25, "spGrade": 3, "status": {"shoot": 1, "effectiveShoot": 1, "goal": {GA}, "passTry": 10, "passSuccess": 8, "spRating": 7.25}},
       {"spId": 102, "spPosition": 24, "spGrade": 1, "status": {"spRating": 0}}
     ]},
    {"ouid": "u-b", "nickname": "Beta", "matchDetail": {"matchResult": "{RB}"},
     "shoot": {"shootTotal": 3, "effectiveShootTotal": 2, "goalTotal": {GB}, "goalTotalDisplay": {GB}},
     "shootDetail": [],
     "player": [
       {"spId": 200, "spPosition": 0, "spGrade": 2, "status": {"spRating": 5.9}}
     ]}
  ]
}`)
}

type testEnv struct {
	db           *memory.Database
	provider     *stubProvider
	users        *memory.UserRepository
	matches      *memory.MatchRepository
	shots        *memory.ShotRepository
	performances *memory.PerformanceRepository
	backend      *cache.MemoryStore
	state        *statestore.CacheState
	pipeline     *ExtractionPipeline
	syncer       *MatchSyncService
	gate         *RequestGate
}

func newTestEnv(t *testing.T, gateCfg GateConfig) *testEnv {
	t.Helper()

	logger := logging.NewNop()
	db := memory.NewDatabase()
	env := &testEnv{
		db:           db,
		provider:     newStubProvider(),
		users:        memory.NewUserRepository(db),
		matches:      memory.NewMatchRepository(db),
		shots:        memory.NewShotRepository(db),
		performances: memory.NewPerformanceRepository(db),
		backend:      cache.NewMemoryStore(),
	}
	env.state = statestore.NewCacheState(env.backend, nil)

	env.pipeline = NewExtractionPipeline(
		env.matches,
		NewShotExtractor(env.users, env.shots, logger),
		NewPerformanceExtractor(env.users, env.performances, logger),
		2,
		logger,
	)
	env.syncer = NewMatchSyncService(
		NewMatchFetcher(env.provider, env.matches, MatchFetcherConfig{WorkerCount: 4, PageSize: 3}, logger),
		NewMatchStore(env.matches, logger),
		NewExtractionDispatcher(ExtractionModeInline, env.pipeline, nil, logger),
		NewCacheInvalidator(env.backend, logger),
		logger,
	)
	env.gate = NewRequestGate(
		NewUserDirectory(env.users, env.provider, logger),
		env.matches,
		env.syncer,
		env.state,
		env.state,
		gateCfg,
		logger,
	)
	t.Cleanup(env.gate.Wait)
	return env
}

// seedMatches registers n matches for u-a, newest first in the upstream list.
func (e *testEnv) seedMatches(n int) {
	e.provider.addUser("Alpha", "u-a")
	e.provider.addUser("Beta", "u-b")
	base := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	for i := n - 1; i >= 0; i-- {
		id := fmt.Sprintf("m-%02d", i)
		e.provider.addMatch("u-a", id, matchDoc(id, base.Add(time.Duration(i)*time.Hour), 1, 0))
	}
}

func fastGateConfig() GateConfig {
	return GateConfig{
		LockTTL:             time.Minute,
		FetchingTTL:         time.Minute,
		RecentlySyncedTTL:   time.Minute,
		PollInterval:        5 * time.Millisecond,
		PollMaxAttempts:     400,
		DefaultDesiredCount: 5,
		MaxDesiredCount:     50,
	}
}
