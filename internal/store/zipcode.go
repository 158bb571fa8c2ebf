package store

import (
	"context"
	"fmt"

	"handraise/internal/utils"
	"handraise/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var zipcodeColumns = utils.StructTagValues(types.ZipcodeCoordinate{})

type ZipcodeRepository struct {
	pool *pgxpool.Pool
}

func NewZipcodeRepository(pool *pgxpool.Pool) *ZipcodeRepository {
	return &ZipcodeRepository{pool: pool}
}

func (r *ZipcodeRepository) Coordinate(ctx context.Context, zipcode string) (*types.ZipcodeCoordinate, error) {
	query, args, err := psql().Select(zipcodeColumns...).
		From(zipcodeTableName).
		Where(sq.Eq{"zipcode": zipcode}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate zipcode query: %w", err)
	}

	var coord types.ZipcodeCoordinate
	err = pgxscan.Get(ctx, r.pool, &coord, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch zipcode %s: %w", zipcode, err)
	}

	return &coord, nil
}

// UpsertCoordinate refreshes a reference row, used by seeding.
func (r *ZipcodeRepository) UpsertCoordinate(ctx context.Context, coord *types.ZipcodeCoordinate) error {
	query, args, err := psql().Insert(zipcodeTableName).
		SetMap(utils.StructToMap(coord)).
		Suffix("ON CONFLICT (zipcode) DO UPDATE SET city = EXCLUDED.city, state = EXCLUDED.state, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert zipcode query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert zipcode")
}
