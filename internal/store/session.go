package store

import (
	"context"
	"fmt"
	"time"

	"handraise/internal/utils"
	"handraise/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionTableName = "sessions"

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession mints a new opaque token for the user.
func (r *SessionRepository) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*types.Session, error) {
	session := &types.Session{
		Token:     utils.NanoIDSize(48),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	query, args, err := psql().Insert(sessionTableName).
		SetMap(utils.StructToMap(session)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert session query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// UserForToken resolves a session token to its user. The session must exist
// and be unexpired and the user must be active; every failure mode collapses
// to ErrNoSession so callers learn nothing about which condition broke.
func (r *SessionRepository) UserForToken(ctx context.Context, token string) (*types.User, error) {
	query, args, err := psql().Select(prefixColumns("u", userColumns)...).
		From(sessionTableName+" s").
		Join(userTableName+" u ON u.id = s.user_id").
		Where(sq.Eq{"s.token": token}).
		Where(sq.Gt{"s.expires_at": time.Now()}).
		Where(sq.Eq{"u.is_active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session lookup query: %w", err)
	}

	var user = new(types.User)
	err = pgxscan.Get(ctx, r.pool, user, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrNoSession
	}

	return user, nil
}

// DeleteSession removes the session row at logout. Deleting an unknown token
// is not an error.
func (r *SessionRepository) DeleteSession(ctx context.Context, token string) error {
	query, args, err := psql().Delete(sessionTableName).Where(sq.Eq{"token": token}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete session query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete session")
}
