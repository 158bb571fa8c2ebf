package types

import "time"

// PartnershipLog is a free-form submission with an ordered list of site
// events. TotalHours is derived from the events at read time, never stored.
type PartnershipLog struct {
	ID           string    `db:"id" json:"id"`
	Organization string    `db:"organization" json:"organization"`
	ContactName  string    `db:"contact_name" json:"contact_name"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	Events     []PartnershipEvent `db:"-" json:"events"`
	TotalHours float64            `db:"-" json:"total_hours"`
}

type PartnershipEvent struct {
	LogID      string  `db:"log_id" json:"-"`
	Position   int     `db:"position" json:"-"`
	EventDate  string  `db:"event_date" json:"date"`
	Site       string  `db:"site" json:"site"`
	Hours      float64 `db:"hours" json:"hours"`
	Volunteers int     `db:"volunteers" json:"volunteers"`
}

type ActivityLog struct {
	ID             string    `db:"id" json:"id"`
	SubmitterName  string    `db:"submitter_name" json:"submitter_name"`
	SubmitterEmail string    `db:"submitter_email" json:"submitter_email"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	Entries    []ActivityEntry `db:"-" json:"activities"`
	TotalHours float64         `db:"-" json:"total_hours"`
}

type ActivityEntry struct {
	LogID        string  `db:"log_id" json:"-"`
	Position     int     `db:"position" json:"-"`
	EntryDate    string  `db:"entry_date" json:"date"`
	Activity     string  `db:"activity" json:"activity"`
	Organization string  `db:"organization" json:"organization"`
	Hours        float64 `db:"hours" json:"hours"`
	Description  string  `db:"description" json:"description"`
}

// SumEventHours recomputes the derived total for a partnership log.
func SumEventHours(events []PartnershipEvent) float64 {
	var total float64
	for _, e := range events {
		total += e.Hours
	}
	return total
}

// SumEntryHours recomputes the derived total for an activity log.
func SumEntryHours(entries []ActivityEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}
