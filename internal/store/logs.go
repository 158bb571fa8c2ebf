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

const (
	partnershipLogTableName   = "partnership_logs"
	partnershipEventTableName = "partnership_events"
	activityLogTableName      = "activity_logs"
	activityEntryTableName    = "activity_entries"
)

type LogRepository struct {
	pool *pgxpool.Pool
}

func NewLogRepository(pool *pgxpool.Pool) *LogRepository {
	return &LogRepository{pool: pool}
}

// CreatePartnershipLog writes the log and its ordered events in one
// transaction so a partial submission never becomes visible.
func (r *LogRepository) CreatePartnershipLog(ctx context.Context, log *types.PartnershipLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin partnership log transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	log.ID = utils.NanoID()
	log.CreatedAt = time.Now()

	logMap := map[string]any{
		"id":            log.ID,
		"organization":  log.Organization,
		"contact_name":  log.ContactName,
		"contact_email": nullable(log.ContactEmail),
		"notes":         nullable(log.Notes),
		"created_at":    log.CreatedAt,
	}

	query, args, err := psql().Insert(partnershipLogTableName).SetMap(logMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert partnership log query: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert partnership log: %w", err)
	}

	for i := range log.Events {
		event := &log.Events[i]
		event.LogID = log.ID
		event.Position = i

		eventQuery, eventArgs, err := psql().Insert(partnershipEventTableName).
			SetMap(utils.StructToMap(event)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate insert event query: %w", err)
		}
		if _, err := tx.Exec(ctx, eventQuery, eventArgs...); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

// PartnershipLog reads a log with its events in submission order. TotalHours
// is recomputed from the events, never read from storage.
func (r *LogRepository) PartnershipLog(ctx context.Context, id string) (*types.PartnershipLog, error) {
	query, args, err := psql().
		Select("id", "organization", "contact_name", "COALESCE(contact_email, '') AS contact_email", "COALESCE(notes, '') AS notes", "created_at").
		From(partnershipLogTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate partnership log query: %w", err)
	}

	var log = new(types.PartnershipLog)
	err = pgxscan.Get(ctx, r.pool, log, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}
	if err != nil {
		return nil, types.ErrLogNotFound
	}

	eventsQuery, eventsArgs, err := psql().
		Select(utils.StructTagValues(types.PartnershipEvent{})...).
		From(partnershipEventTableName).
		Where(sq.Eq{"log_id": id}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate events query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.pool, &log.Events, eventsQuery, eventsArgs...); err != nil {
		return nil, fmt.Errorf("failed to fetch events for log %s: %w", id, err)
	}

	log.TotalHours = types.SumEventHours(log.Events)

	return log, nil
}

// CreateActivityLog mirrors CreatePartnershipLog for activity submissions.
func (r *LogRepository) CreateActivityLog(ctx context.Context, log *types.ActivityLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin activity log transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	log.ID = utils.NanoID()
	log.CreatedAt = time.Now()

	logMap := map[string]any{
		"id":              log.ID,
		"submitter_name":  log.SubmitterName,
		"submitter_email": nullable(log.SubmitterEmail),
		"created_at":      log.CreatedAt,
	}

	query, args, err := psql().Insert(activityLogTableName).SetMap(logMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert activity log query: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	for i := range log.Entries {
		entry := &log.Entries[i]
		entry.LogID = log.ID
		entry.Position = i

		entryQuery, entryArgs, err := psql().Insert(activityEntryTableName).
			SetMap(utils.StructToMap(entry)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate insert entry query: %w", err)
		}
		if _, err := tx.Exec(ctx, entryQuery, entryArgs...); err != nil {
			return fmt.Errorf("failed to insert entry %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *LogRepository) ActivityLog(ctx context.Context, id string) (*types.ActivityLog, error) {
	query, args, err := psql().
		Select("id", "submitter_name", "COALESCE(submitter_email, '') AS submitter_email", "created_at").
		From(activityLogTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate activity log query: %w", err)
	}

	var log = new(types.ActivityLog)
	err = pgxscan.Get(ctx, r.pool, log, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}
	if err != nil {
		return nil, types.ErrLogNotFound
	}

	entriesQuery, entriesArgs, err := psql().
		Select(utils.StructTagValues(types.ActivityEntry{})...).
		From(activityEntryTableName).
		Where(sq.Eq{"log_id": id}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate entries query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.pool, &log.Entries, entriesQuery, entriesArgs...); err != nil {
		return nil, fmt.Errorf("failed to fetch entries for log %s: %w", id, err)
	}

	log.TotalHours = types.SumEntryHours(log.Entries)

	return log, nil
}
