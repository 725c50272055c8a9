package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/match-history/internal/domain/user"
)

type UserRepository struct {
	db *Database
}

func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByNickname(_ context.Context, nickname string) (user.User, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	nickname = user.NormalizeNickname(nickname)
	var (
		best  user.User
		found bool
	)
	for _, u := range r.db.users {
		if !strings.EqualFold(u.Nickname, nickname) {
			continue
		}
		if !found || u.UpdatedAt.After(best.UpdatedAt) {
			best, found = u, true
		}
	}
	return best, found, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	return u, ok, nil
}

func (r *UserRepository) Upsert(_ context.Context, u user.User) (user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now().UTC()
	if id, ok := r.db.usersByOUID[u.OUID]; ok {
		existing := r.db.users[id]
		existing.Nickname = user.NormalizeNickname(u.Nickname)
		existing.UpdatedAt = now
		r.db.users[id] = existing
		return existing, nil
	}

	r.db.nextUserID++
	created := user.User{
		ID:        r.db.nextUserID,
		OUID:      u.OUID,
		Nickname:  user.NormalizeNickname(u.Nickname),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.db.users[created.ID] = created
	r.db.usersByOUID[created.OUID] = created.ID
	return created, nil
}

func (r *UserRepository) ListByOUIDs(_ context.Context, ouids []string) ([]user.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]user.User, 0, len(ouids))
	for _, ouid := range ouids {
		if id, ok := r.db.usersByOUID[ouid]; ok {
			out = append(out, r.db.users[id])
		}
	}
	return out, nil
}

func (r *UserRepository) TouchRequested(_ context.Context, id int64, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil
	}
	at = at.UTC()
	u.LastRequestedAt = &at
	r.db.users[id] = u
	return nil
}

func (r *UserRepository) ListRecentlyRequested(_ context.Context, since time.Time, limit int) ([]user.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]user.User, 0)
	for _, u := range r.db.users {
		if u.LastRequestedAt != nil && !u.LastRequestedAt.Before(since) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastRequestedAt.After(*out[j].LastRequestedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
