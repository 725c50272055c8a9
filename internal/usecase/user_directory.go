package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/user"
	"github.com/riskibarqy/match-history/internal/platform/logging"
)

// UserDirectory maps nicknames to stored users, asking upstream for the
// opaque id only on a local miss.
type UserDirectory struct {
	users    user.Repository
	provider GameStatsProvider
	logger   *logging.Logger
	now      func() time.Time
}

func NewUserDirectory(users user.Repository, provider GameStatsProvider, logger *logging.Logger) *UserDirectory {
	if logger == nil {
		logger = logging.Default()
	}
	return &UserDirectory{
		users:    users,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

func (d *UserDirectory) Resolve(ctx context.Context, nickname string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserDirectory.Resolve")
	defer span.End()

	nickname = user.NormalizeNickname(nickname)
	if nickname == "" {
		return user.User{}, fmt.Errorf("%w: nickname is required", ErrInvalidInput)
	}

	u, found, err := d.users.GetByNickname(ctx, nickname)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by nickname: %w", err)
	}
	if !found {
		ouid, err := d.provider.GetOUID(ctx, nickname)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return user.User{}, fmt.Errorf("%w: nickname=%s", ErrNotFound, nickname)
			}
			return user.User{}, fmt.Errorf("resolve ouid: %w", err)
		}
		u, err = d.users.Upsert(ctx, user.User{OUID: ouid, Nickname: nickname})
		if err != nil {
			return user.User{}, fmt.Errorf("upsert user: %w", err)
		}
	}

	now := d.now().UTC()
	if err := d.users.TouchRequested(ctx, u.ID, now); err != nil {
		d.logger.WarnContext(ctx, "touch user last requested failed", "user_id", u.ID, "error", err)
	} else {
		u.LastRequestedAt = &now
	}
	return u, nil
}
