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
	jobTableName      = "jobs"
	zipcodeTableName  = "zipcode_coordinates"
	positionsViewName = "job_position_counts"
)

var jobColumns = utils.StructTagValues(types.Job{})

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// distanceExpr computes miles between the caller's origin zipcode row and the
// job's effective coordinates (explicit override first, reference row
// otherwise). calculate_distance is a database-side function; it is not
// defined by this repository's migrations.
const distanceExpr = "calculate_distance(origin.latitude, origin.longitude, COALESCE(j.latitude, z.latitude), COALESCE(j.longitude, z.longitude))"

// searchConditions builds the full predicate set for a listing search. Each
// optional filter contributes exactly one independent sqlizer owning its own
// placeholders, so adding or removing one filter can never disturb another.
// Both the data query and the count query fold this same slice, which is what
// keeps their semantics in lock-step.
func searchConditions(params types.JobSearchParams, now time.Time) []sq.Sqlizer {
	conditions := []sq.Sqlizer{
		sq.Eq{"j.status": types.JobStatusActive},
		sq.Gt{"j.expires_at": now},
	}

	if params.Category != "" {
		conditions = append(conditions, sq.Eq{"j.category": params.Category})
	}

	if params.Skills != "" {
		conditions = append(conditions, sq.ILike{"j.skills": "%" + params.Skills + "%"})
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"j.title": pattern},
			sq.ILike{"j.description": pattern},
		})
	}

	if params.Zipcode != "" {
		conditions = append(conditions, sq.Expr(distanceExpr+" <= ?", params.Distance))
	}

	return conditions
}

// searchJoins attaches the reference-coordinate joins. The origin join only
// exists when a zipcode was supplied; the fallback join is always present so
// listings can fill in city/state/coordinates the job itself left blank.
func searchJoins(builder sq.SelectBuilder, params types.JobSearchParams) sq.SelectBuilder {
	builder = builder.LeftJoin(zipcodeTableName + " z ON z.zipcode = j.zipcode")
	if params.Zipcode != "" {
		builder = builder.Join(zipcodeTableName+" origin ON origin.zipcode = ?", params.Zipcode)
	}
	return builder
}

func buildSearchQueries(params types.JobSearchParams, now time.Time) (dataSQL string, dataArgs []any, countSQL string, countArgs []any, err error) {
	conditions := searchConditions(params, now)

	columns := prefixColumns("j", jobColumns)
	columns = append(columns,
		"COALESCE(p.positions_filled, 0) AS positions_filled",
		"COALESCE(p.positions_remaining, j.volunteers_needed) AS positions_remaining",
		"z.city AS zip_city",
		"z.state AS zip_state",
		"z.latitude AS zip_latitude",
		"z.longitude AS zip_longitude",
	)
	if params.Zipcode != "" {
		columns = append(columns, distanceExpr+" AS distance_miles")
	}

	data := psql().Select(columns...).
		From(jobTableName + " j").
		LeftJoin(positionsViewName + " p ON p.job_id = j.id")
	data = searchJoins(data, params)
	for _, c := range conditions {
		data = data.Where(c)
	}

	orderBy := []string{"j.urgency DESC", "j.created_at DESC"}
	if params.Zipcode != "" {
		orderBy = append([]string{"distance_miles ASC"}, orderBy...)
	}

	data = data.OrderBy(orderBy...).
		Limit(uint64(params.Limit)).
		Offset(uint64((params.Page - 1) * params.Limit))

	dataSQL, dataArgs, err = data.ToSql()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("failed to generate job search query: %w", err)
	}

	count := psql().Select("COUNT(*)").From(jobTableName + " j")
	count = searchJoins(count, params)
	for _, c := range conditions {
		count = count.Where(c)
	}

	countSQL, countArgs, err = count.ToSql()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("failed to generate job count query: %w", err)
	}

	return dataSQL, dataArgs, countSQL, countArgs, nil
}

// Search returns one page of active, unexpired jobs matching every supplied
// filter, plus the total match count for pagination.
func (r *JobRepository) Search(ctx context.Context, params types.JobSearchParams) ([]*types.JobListing, int64, error) {
	params.Normalize()

	dataSQL, dataArgs, countSQL, countArgs, err := buildSearchQueries(params, time.Now())
	if err != nil {
		return nil, 0, err
	}

	var jobs = make([]*types.JobListing, 0)
	err = pgxscan.Select(ctx, r.pool, &jobs, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	var total int64
	err = pgxscan.Get(ctx, r.pool, &total, countSQL, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	for _, job := range jobs {
		job.ResolveLocation()
	}

	return jobs, total, nil
}

func (r *JobRepository) Job(ctx context.Context, jobID string) (*types.Job, error) {
	query, args, err := psql().Select(jobColumns...).From(jobTableName).
		Where(sq.Eq{"id": jobID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job query: %w", err)
	}

	var job = new(types.Job)
	err = pgxscan.Get(ctx, r.pool, job, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrJobNotFound
	}

	return job, nil
}

// JobListing reads a single job decorated with position counts and the
// reference-table location fallback.
func (r *JobRepository) JobListing(ctx context.Context, jobID string) (*types.JobListing, error) {
	columns := prefixColumns("j", jobColumns)
	columns = append(columns,
		"COALESCE(p.positions_filled, 0) AS positions_filled",
		"COALESCE(p.positions_remaining, j.volunteers_needed) AS positions_remaining",
		"z.city AS zip_city",
		"z.state AS zip_state",
		"z.latitude AS zip_latitude",
		"z.longitude AS zip_longitude",
	)

	query, args, err := psql().Select(columns...).
		From(jobTableName+" j").
		LeftJoin(positionsViewName+" p ON p.job_id = j.id").
		LeftJoin(zipcodeTableName+" z ON z.zipcode = j.zipcode").
		Where(sq.Eq{"j.id": jobID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job detail query: %w", err)
	}

	var listing = new(types.JobListing)
	err = pgxscan.Get(ctx, r.pool, listing, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrJobNotFound
	}

	listing.ResolveLocation()

	return listing, nil
}

func (r *JobRepository) CreateJob(ctx context.Context, job *types.Job) error {
	now := time.Now()
	job.ID = utils.NanoID()
	job.CreatedAt = now
	job.UpdatedAt = now

	query, args, err := psql().Insert(jobTableName).SetMap(utils.StructToMap(job)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert job query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create job")
}

// UpdateJobFields applies a partial update. The caller supplies only
// allow-listed columns; updated_at is always refreshed.
func (r *JobRepository) UpdateJobFields(ctx context.Context, jobID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	query, args, err := psql().Update(jobTableName).SetMap(fields).Where(sq.Eq{"id": jobID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update job query for job %s: %w", jobID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update job")
}

// DeleteJob removes a job and its applications, but only when no application
// has been accepted. With accepted applicants the job must be transitioned to
// filled instead.
func (r *JobRepository) DeleteJob(ctx context.Context, jobID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery, countArgs, err := psql().Select("COUNT(*)").
		From(applicationTableName).
		Where(sq.Eq{"job_id": jobID, "status": types.ApplicationStatusAccepted}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate accepted count query: %w", err)
	}

	var accepted int64
	if err := pgxscan.Get(ctx, tx, &accepted, countQuery, countArgs...); err != nil {
		return fmt.Errorf("failed to count accepted applications: %w", err)
	}

	if accepted > 0 {
		return types.ErrJobHasAcceptedApplications
	}

	appsQuery, appsArgs, err := psql().Delete(applicationTableName).Where(sq.Eq{"job_id": jobID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete applications query: %w", err)
	}
	if _, err := tx.Exec(ctx, appsQuery, appsArgs...); err != nil {
		return fmt.Errorf("failed to delete applications for job %s: %w", jobID, err)
	}

	jobQuery, jobArgs, err := psql().Delete(jobTableName).Where(sq.Eq{"id": jobID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete job query: %w", err)
	}

	tag, err := tx.Exec(ctx, jobQuery, jobArgs...)
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrJobNotFound
	}

	return tx.Commit(ctx)
}

func prefixColumns(prefix string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = prefix + "." + c
	}
	return out
}
