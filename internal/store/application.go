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

const applicationTableName = "job_applications"

var applicationColumns = utils.StructTagValues(types.JobApplication{})

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

// Apply inserts an application after re-reading the job under lock. The job
// row is taken FOR UPDATE so the lifecycle, expiry, and duplicate checks and
// the insert happen atomically with respect to concurrent applicants.
// Capacity is deliberately not checked here; it only takes effect through the
// poster transitioning the job to filled.
func (r *ApplicationRepository) Apply(ctx context.Context, app *types.JobApplication) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin application transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	jobQuery, jobArgs, err := psql().Select("id", "status", "expires_at").
		From(jobTableName).
		Where(sq.Eq{"id": app.JobID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate job lock query: %w", err)
	}

	var job struct {
		ID        string          `db:"id"`
		Status    types.JobStatus `db:"status"`
		ExpiresAt time.Time       `db:"expires_at"`
	}
	err = pgxscan.Get(ctx, tx, &job, jobQuery, jobArgs...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return types.ErrJobNotFound
		}
		return fmt.Errorf("failed to read job %s: %w", app.JobID, err)
	}

	if job.Status != types.JobStatusActive {
		return types.ErrJobNotActive
	}
	if !job.ExpiresAt.After(time.Now()) {
		return types.ErrJobExpired
	}

	dupQuery, dupArgs, err := psql().Select("COUNT(*)").
		From(applicationTableName).
		Where(sq.Eq{"job_id": app.JobID, "applicant_email": app.ApplicantEmail}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate duplicate check query: %w", err)
	}

	var existing int64
	if err := pgxscan.Get(ctx, tx, &existing, dupQuery, dupArgs...); err != nil {
		return fmt.Errorf("failed to check for duplicate application: %w", err)
	}
	if existing > 0 {
		return types.ErrDuplicateApplication
	}

	now := time.Now()
	app.ID = utils.NanoID()
	app.Status = types.ApplicationStatusPending
	app.CreatedAt = now
	app.UpdatedAt = now

	insertQuery, insertArgs, err := psql().Insert(applicationTableName).
		SetMap(utils.StructToMap(app)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert application query: %w", err)
	}

	if _, err := tx.Exec(ctx, insertQuery, insertArgs...); err != nil {
		// the unique index backstops the in-transaction check
		if strings.Contains(err.Error(), "duplicate key") {
			return types.ErrDuplicateApplication
		}
		return fmt.Errorf("failed to insert application: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ApplicationRepository) Application(ctx context.Context, id string) (*types.JobApplication, error) {
	query, args, err := psql().Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application query: %w", err)
	}

	var app = new(types.JobApplication)
	err = pgxscan.Get(ctx, r.pool, app, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrApplicationNotFound
	}

	return app, nil
}

// Applications lists applications with optional job/status filters and
// pagination, newest first.
func (r *ApplicationRepository) Applications(ctx context.Context, params types.ApplicationListParams) ([]*types.JobApplication, int64, error) {
	params.Normalize()

	conditions := []sq.Sqlizer{}
	if params.JobID != "" {
		conditions = append(conditions, sq.Eq{"job_id": params.JobID})
	}
	if params.Status != "" {
		conditions = append(conditions, sq.Eq{"status": params.Status})
	}

	data := psql().Select(applicationColumns...).From(applicationTableName)
	count := psql().Select("COUNT(*)").From(applicationTableName)
	for _, c := range conditions {
		data = data.Where(c)
		count = count.Where(c)
	}

	dataSQL, dataArgs, err := data.
		OrderBy("created_at DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64((params.Page - 1) * params.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate applications query: %w", err)
	}

	var apps = make([]*types.JobApplication, 0)
	if err := pgxscan.Select(ctx, r.pool, &apps, dataSQL, dataArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate applications count query: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.pool, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	return apps, total, nil
}

func (r *ApplicationRepository) ApplicationsByJob(ctx context.Context, jobID string) ([]*types.JobApplication, error) {
	query, args, err := psql().Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"job_id": jobID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications query: %w", err)
	}

	var apps = make([]*types.JobApplication, 0)
	if err := pgxscan.Select(ctx, r.pool, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch applications for job %s: %w", jobID, err)
	}

	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status types.ApplicationStatus) error {
	query, args, err := psql().Update(applicationTableName).
		SetMap(map[string]any{
			"status":     status,
			"updated_at": time.Now(),
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update application query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrApplicationNotFound
	}

	return nil
}

// Volunteers lists accepted applicants joined with the jobs they filled.
func (r *ApplicationRepository) Volunteers(ctx context.Context, page, limit int) ([]*types.Volunteer, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = types.DefaultPageLimit
	}

	accepted := sq.Eq{"a.status": types.ApplicationStatusAccepted}

	dataSQL, dataArgs, err := psql().Select(
		"a.id AS application_id",
		"a.applicant_name",
		"a.applicant_email",
		"j.id AS job_id",
		"j.title AS job_title",
		"a.updated_at AS accepted_at",
	).
		From(applicationTableName+" a").
		Join(jobTableName+" j ON j.id = a.job_id").
		Where(accepted).
		OrderBy("a.updated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate volunteers query: %w", err)
	}

	var volunteers = make([]*types.Volunteer, 0)
	if err := pgxscan.Select(ctx, r.pool, &volunteers, dataSQL, dataArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch volunteers: %w", err)
	}

	countSQL, countArgs, err := psql().Select("COUNT(*)").
		From(applicationTableName + " a").
		Where(accepted).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate volunteers count query: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.pool, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count volunteers: %w", err)
	}

	return volunteers, total, nil
}
