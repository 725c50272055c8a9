package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/matchdetail"
	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

type UpsertResult struct {
	Record   match.Record
	Inserted bool
}

// MatchStore writes one record per (match, viewing user). The unique
// constraint on that pair is the correctness backstop for concurrent writers.
type MatchStore struct {
	matches match.Repository
	logger  *logging.Logger
	now     func() time.Time
}

func NewMatchStore(matches match.Repository, logger *logging.Logger) *MatchStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchStore{matches: matches, logger: logger, now: time.Now}
}

func (s *MatchStore) Upsert(ctx context.Context, u user.User, fetched FetchedMatch) (UpsertResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchStore.Upsert")
	defer span.End()

	record, err := s.buildRecord(u, fetched)
	if err != nil {
		return UpsertResult{}, err
	}

	inserted, err := s.matches.Insert(ctx, record)
	if err == nil {
		return UpsertResult{Record: inserted, Inserted: true}, nil
	}
	if !errors.Is(err, match.ErrDuplicate) {
		return UpsertResult{}, fmt.Errorf("insert match record: %w", err)
	}

	// Lost the race or already stored: the stored row wins.
	existing, found, getErr := s.matches.GetByKey(ctx, match.Key{MatchID: record.MatchID, UserID: record.UserID})
	if getErr != nil {
		return UpsertResult{}, fmt.Errorf("%w: reload match=%s user=%d: %v", ErrConflict, record.MatchID, record.UserID, getErr)
	}
	if !found {
		return UpsertResult{}, fmt.Errorf("%w: match=%s user=%d vanished after conflict", ErrConflict, record.MatchID, record.UserID)
	}
	s.logger.DebugContext(ctx, "match record already stored", "match_id", record.MatchID, "user_id", record.UserID)
	return UpsertResult{Record: existing, Inserted: false}, nil
}

// GetByMatchAndUser always scopes by the pair; a match id alone is ambiguous.
func (s *MatchStore) GetByMatchAndUser(ctx context.Context, matchID string, userID int64) (match.Record, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" || userID <= 0 {
		return match.Record{}, false, fmt.Errorf("%w: match id and user id are required", ErrInvalidInput)
	}
	record, found, err := s.matches.GetByKey(ctx, match.Key{MatchID: matchID, UserID: userID})
	if err != nil {
		return match.Record{}, false, fmt.Errorf("get match record: %w", err)
	}
	return record, found, nil
}

func (s *MatchStore) buildRecord(u user.User, fetched FetchedMatch) (match.Record, error) {
	detail := fetched.Detail
	mine, err := detail.Side(u.OUID)
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	opponent, hasOpponent := detail.Opponent(u.OUID)

	playedAt, ok := detail.PlayedAt()
	if !ok {
		playedAt = s.now().UTC()
	}

	if fetched.Category == "" {
		fetched.Category = categoryFromUpstream(detail.MatchType)
	}

	record := match.Record{
		MatchID:    detail.MatchID,
		UserID:     u.ID,
		Category:   fetched.Category,
		PlayedAt:   playedAt,
		GoalsFor:   mine.Shoot.DisplayedGoals(),
		RawPayload: fetched.Raw,
	}
	if hasOpponent {
		record.GoalsAgainst = opponent.Shoot.DisplayedGoals()
		record.OpponentOUID = opponent.OUID
		record.OpponentNickname = opponent.Nickname

		mineShootOut, oppShootOut := shootOutScore(mine.Shoot), shootOutScore(opponent.Shoot)
		if mineShootOut > 0 || oppShootOut > 0 {
			record.PenaltyFor = &mineShootOut
			record.PenaltyAgainst = &oppShootOut
		}
	}
	record.Result = resolveResult(mine.Summary.MatchResult, record, hasOpponent)
	return record, nil
}

func shootOutScore(s *matchdetail.ShootSummary) int {
	if s == nil {
		return 0
	}
	return s.ShootOutScore
}

func categoryFromUpstream(code int) match.Category {
	for _, c := range match.Categories() {
		if c.UpstreamCode() == code {
			return c
		}
	}
	return match.CategoryOfficial
}

// resolveResult reads the upstream label, which may be localized, and falls
// back to comparing goals and then shoot-out scores.
func resolveResult(label string, record match.Record, hasOpponent bool) match.Result {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "win", "승":
		return match.ResultWin
	case "draw", "무":
		return match.ResultDraw
	case "lose", "loss", "패":
		return match.ResultLose
	}
	if !hasOpponent {
		return match.ResultUnknown
	}

	forGoals, againstGoals := record.GoalsFor, record.GoalsAgainst
	if forGoals == againstGoals && record.PenaltyFor != nil && record.PenaltyAgainst != nil {
		forGoals, againstGoals = *record.PenaltyFor, *record.PenaltyAgainst
	}
	switch {
	case forGoals > againstGoals:
		return match.ResultWin
	case forGoals < againstGoals:
		return match.ResultLose
	default:
		return match.ResultDraw
	}
}
