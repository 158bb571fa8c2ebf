package types

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

type JobApplication struct {
	ID             string            `db:"id" json:"id"`
	JobID          string            `db:"job_id" json:"job_id"`
	ApplicantName  string            `db:"applicant_name" json:"applicant_name"`
	ApplicantEmail string            `db:"applicant_email" json:"applicant_email"`
	Message        string            `db:"message" json:"message"`
	Status         ApplicationStatus `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

type ApplicationListParams struct {
	JobID  string            `form:"job_id"`
	Status ApplicationStatus `form:"status"`
	Page   int               `form:"page"`
	Limit  int               `form:"limit"`
}

func (p *ApplicationListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
}

// Volunteer is an accepted applicant joined with the job they filled.
type Volunteer struct {
	ApplicationID  string    `db:"application_id" json:"application_id"`
	ApplicantName  string    `db:"applicant_name" json:"applicant_name"`
	ApplicantEmail string    `db:"applicant_email" json:"applicant_email"`
	JobID          string    `db:"job_id" json:"job_id"`
	JobTitle       string    `db:"job_title" json:"job_title"`
	AcceptedAt     time.Time `db:"accepted_at" json:"accepted_at"`
}
