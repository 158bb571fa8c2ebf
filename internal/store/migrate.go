package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrationStatements is the full idempotent schema: tables, indexes, and the
// derived position-counts view. The calculate_distance SQL function used by
// listing search is provisioned alongside the database itself, not here.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,

	`CREATE TABLE IF NOT EXISTS zipcode_coordinates (
		zipcode TEXT PRIMARY KEY,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		posted_by TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		skills TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		volunteers_needed INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL DEFAULT 'active',
		urgency INTEGER NOT NULL DEFAULT 0,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status_expires ON jobs(status, expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_category ON jobs(category)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_zipcode ON jobs(zipcode)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_posted_by ON jobs(posted_by)`,

	`CREATE TABLE IF NOT EXISTS job_applications (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		applicant_name TEXT NOT NULL,
		applicant_email TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_job_email ON job_applications(job_id, applicant_email)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_status ON job_applications(status)`,

	`CREATE TABLE IF NOT EXISTS job_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'volunteer',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS partnership_logs (
		id TEXT PRIMARY KEY,
		organization TEXT NOT NULL,
		contact_name TEXT NOT NULL,
		contact_email TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS partnership_events (
		log_id TEXT NOT NULL REFERENCES partnership_logs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		event_date TEXT NOT NULL,
		site TEXT NOT NULL,
		hours DOUBLE PRECISION NOT NULL,
		volunteers INTEGER NOT NULL,
		PRIMARY KEY (log_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS activity_logs (
		id TEXT PRIMARY KEY,
		submitter_name TEXT NOT NULL,
		submitter_email TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS activity_entries (
		log_id TEXT NOT NULL REFERENCES activity_logs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		entry_date TEXT NOT NULL,
		activity TEXT NOT NULL,
		organization TEXT NOT NULL,
		hours DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (log_id, position)
	)`,

	// positions_remaining is clamped at zero; over-accepting beyond capacity
	// is possible and reads must not surface a negative count.
	`CREATE OR REPLACE VIEW job_position_counts AS
		SELECT
			j.id AS job_id,
			COUNT(a.id) FILTER (WHERE a.status = 'accepted')::INTEGER AS positions_filled,
			GREATEST(j.volunteers_needed - COUNT(a.id) FILTER (WHERE a.status = 'accepted'), 0)::INTEGER AS positions_remaining
		FROM jobs j
		LEFT JOIN job_applications a ON a.job_id = j.id
		GROUP BY j.id, j.volunteers_needed`,
}

// Migrate applies the schema. Every statement is idempotent so the endpoint
// and CLI command can run it repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrationStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}
	return nil
}
