package types

import (
	"time"
)

type JobStatus string

const (
	JobStatusActive    JobStatus = "active"
	JobStatusFilled    JobStatus = "filled"
	JobStatusExpired   JobStatus = "expired"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusFilled, JobStatusExpired, JobStatusCancelled:
		return true
	}
	return false
}

type Job struct {
	ID          string `db:"id" json:"id"`
	PostedBy    string `db:"posted_by" json:"posted_by"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`

	// Taxonomy value, either a parent key or "parent:subcategory-slug"
	Category string `db:"category" json:"category"`
	Skills   string `db:"skills" json:"skills"`

	JobLocation

	VolunteersNeeded int        `db:"volunteers_needed" json:"volunteers_needed"`
	Status           JobStatus  `db:"status" json:"status"`
	Urgency          int        `db:"urgency" json:"urgency"`
	ExpiresAt        time.Time  `db:"expires_at" json:"expires_at"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type JobLocation struct {
	Address string `db:"address" json:"address"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	Zipcode string `db:"zipcode" json:"zipcode"`

	// Explicit override; when nil the zipcode_coordinates row supplies the
	// coordinates.
	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`
}

// JobListing is a listing row: the job plus everything computed around it.
type JobListing struct {
	Job

	PositionsFilled    int `db:"positions_filled" json:"positions_filled"`
	PositionsRemaining int `db:"positions_remaining" json:"positions_remaining"`

	ZipCity      *string  `db:"zip_city" json:"-"`
	ZipState     *string  `db:"zip_state" json:"-"`
	ZipLatitude  *float64 `db:"zip_latitude" json:"-"`
	ZipLongitude *float64 `db:"zip_longitude" json:"-"`

	DistanceMiles *float64 `db:"distance_miles" json:"distance_miles,omitempty"`
}

// ResolveLocation fills display fields from the reference row wherever the
// job itself left them blank.
func (l *JobListing) ResolveLocation() {
	if l.Latitude == nil && l.ZipLatitude != nil {
		l.Latitude = l.ZipLatitude
	}
	if l.Longitude == nil && l.ZipLongitude != nil {
		l.Longitude = l.ZipLongitude
	}
	if l.City == "" && l.ZipCity != nil {
		l.City = *l.ZipCity
	}
	if l.State == "" && l.ZipState != nil {
		l.State = *l.ZipState
	}
}

type JobSearchParams struct {
	Category string  `form:"category"`
	Zipcode  string  `form:"zipcode"`
	Distance float64 `form:"distance"`
	Skills   string  `form:"skills"`
	Search   string  `form:"search"`
	Page     int     `form:"page"`
	Limit    int     `form:"limit"`
}

const (
	DefaultSearchDistance = 25.0
	DefaultPageLimit      = 20
)

// Normalize applies the documented defaults and floors.
func (p *JobSearchParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Distance <= 0 {
		p.Distance = DefaultSearchDistance
	}
	if p.Category == "all" {
		p.Category = ""
	}
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(page)*int64(limit) < total,
		HasPrev:    page > 1,
	}
}
