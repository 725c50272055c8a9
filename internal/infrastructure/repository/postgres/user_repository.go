package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-history/internal/domain/user"
	qb "github.com/riskibarqy/match-history/internal/platform/querybuilder"
)

var userColumns = []string{"id", "ouid", "nickname", "last_requested_at", "created_at", "updated_at"}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).From("users").
		Where(qb.Expr("LOWER(nickname) = LOWER(?)", user.NormalizeNickname(nickname))).
		OrderBy("updated_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user by nickname query: %w", err)
	}
	return r.getOne(ctx, query, args, "nickname="+nickname)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).From("users").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user by id query: %w", err)
	}
	return r.getOne(ctx, query, args, fmt.Sprintf("id=%d", id))
}

func (r *UserRepository) getOne(ctx context.Context, query string, args []any, what string) (user.User, bool, error) {
	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user %s: %w", what, err)
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) Upsert(ctx context.Context, u user.User) (user.User, error) {
	model := userInsertModel{
		OUID:     u.OUID,
		Nickname: user.NormalizeNickname(u.Nickname),
	}
	query, args, err := qb.InsertModel("users", model, `ON CONFLICT (ouid)
DO UPDATE SET
    nickname = EXCLUDED.nickname,
    updated_at = NOW()
RETURNING id, ouid, nickname, last_requested_at, created_at, updated_at`)
	if err != nil {
		return user.User{}, fmt.Errorf("build upsert user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, fmt.Errorf("upsert user ouid=%s: %w", u.OUID, err)
	}
	return userFromRow(row), nil
}

func (r *UserRepository) ListByOUIDs(ctx context.Context, ouids []string) ([]user.User, error) {
	if len(ouids) == 0 {
		return nil, nil
	}
	query, args, err := qb.Select(userColumns...).From("users").
		Where(qb.InStrings("ouid", ouids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select users by ouid query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users by ouid: %w", err)
	}
	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) TouchRequested(ctx context.Context, id int64, at time.Time) error {
	query, args, err := qb.Update("users").
		Set("last_requested_at", at.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch user id=%d: %w", id, err)
	}
	return nil
}

func (r *UserRepository) ListRecentlyRequested(ctx context.Context, since time.Time, limit int) ([]user.User, error) {
	query, args, err := qb.Select(userColumns...).From("users").
		Where(qb.Expr("last_requested_at >= ?", since.UTC())).
		OrderBy("last_requested_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recently requested users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recently requested users: %w", err)
	}
	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:              row.ID,
		OUID:            row.OUID,
		Nickname:        row.Nickname,
		LastRequestedAt: row.LastRequestedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
