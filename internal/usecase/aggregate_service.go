package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-history/internal/domain/aggregate"
	"github.com/riskibarqy/match-history/internal/domain/match"
	"github.com/riskibarqy/match-history/internal/domain/user"
)

const (
	defaultAggregateWindow = 20
	maxAggregateWindow     = 100
)

type AggregateQuery struct {
	Nickname string
	Category match.Category
	Kind     aggregate.Kind
	Window   int
}

type AggregateView struct {
	UserID   int64
	Nickname string
	Category match.Category
	Kind     aggregate.Kind
	Window   int
	Form     *aggregate.Form
	Shots    *aggregate.ShotSummary
	Players  *aggregate.PlayerSummary
}

// AggregateService reads summaries over stored matches. It only knows local
// users and never asks upstream for anything.
type AggregateService struct {
	users      user.Repository
	aggregates aggregate.Repository
}

func NewAggregateService(users user.Repository, aggregates aggregate.Repository) *AggregateService {
	return &AggregateService{users: users, aggregates: aggregates}
}

func (s *AggregateService) Get(ctx context.Context, query AggregateQuery) (AggregateView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregateService.Get")
	defer span.End()

	nickname := user.NormalizeNickname(query.Nickname)
	if nickname == "" {
		return AggregateView{}, fmt.Errorf("%w: nickname is required", ErrInvalidInput)
	}
	category, err := match.ParseCategory(string(query.Category))
	if err != nil {
		return AggregateView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	kind, err := aggregate.ParseKind(string(query.Kind))
	if err != nil {
		return AggregateView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	window := query.Window
	if window == 0 {
		window = defaultAggregateWindow
	}
	if window < 0 || window > maxAggregateWindow {
		return AggregateView{}, fmt.Errorf("%w: window must be between 1 and %d", ErrInvalidInput, maxAggregateWindow)
	}

	u, found, err := s.users.GetByNickname(ctx, nickname)
	if err != nil {
		return AggregateView{}, fmt.Errorf("get user by nickname: %w", err)
	}
	if !found {
		return AggregateView{}, fmt.Errorf("%w: nickname=%s", ErrNotFound, nickname)
	}

	view := AggregateView{
		UserID:   u.ID,
		Nickname: u.Nickname,
		Category: category,
		Kind:     kind,
		Window:   window,
	}
	switch kind {
	case aggregate.KindForm:
		form, err := s.aggregates.Form(ctx, u.ID, category, window)
		if err != nil {
			return AggregateView{}, fmt.Errorf("load form aggregate: %w", err)
		}
		view.Form = &form
	case aggregate.KindShots:
		shots, err := s.aggregates.Shots(ctx, u.ID, category, window)
		if err != nil {
			return AggregateView{}, fmt.Errorf("load shot aggregate: %w", err)
		}
		view.Shots = &shots
	case aggregate.KindPlayers:
		players, err := s.aggregates.Players(ctx, u.ID, category, window)
		if err != nil {
			return AggregateView{}, fmt.Errorf("load player aggregate: %w", err)
		}
		view.Players = &players
	}
	return view, nil
}
