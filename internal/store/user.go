package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"handraise/internal/utils"
	"handraise/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userTableName = "users"

var userColumns = utils.StructTagValues(types.User{})

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	return r.userWhere(ctx, sq.Eq{"id": userID})
}

func (r *UserRepository) UserByUsername(ctx context.Context, username string) (*types.User, error) {
	return r.userWhere(ctx, sq.Eq{"username": username})
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	return r.userWhere(ctx, sq.Eq{"email": strings.ToLower(email)})
}

func (r *UserRepository) userWhere(ctx context.Context, cond sq.Eq) (*types.User, error) {
	query, args, err := psql().Select(userColumns...).From(userTableName).
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user = new(types.User)
	err = pgxscan.Get(ctx, r.pool, user, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrUserNotFound
	}

	return user, nil
}

func (r *UserRepository) Users(ctx context.Context, page, limit int) ([]*types.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = types.DefaultPageLimit
	}

	dataSQL, dataArgs, err := psql().Select(userColumns...).From(userTableName).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate users query: %w", err)
	}

	var users = make([]*types.User, 0)
	if err := pgxscan.Select(ctx, r.pool, &users, dataSQL, dataArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	countSQL, countArgs, err := psql().Select("COUNT(*)").From(userTableName).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate users count query: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.pool, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return users, total, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.ID = utils.NanoID()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := psql().Insert(userTableName).SetMap(utils.StructToMap(user)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return types.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}
