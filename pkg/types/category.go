package types

import "time"

type CategoryType string

const (
	CategoryTypeVolunteer CategoryType = "volunteer"
	CategoryTypeRequester CategoryType = "requester"
)

func (t CategoryType) Valid() bool {
	return t == CategoryTypeVolunteer || t == CategoryTypeRequester
}

// JobCategory is the admin-editable taxonomy row. It is independent of the
// static in-process catalog and the two are not reconciled automatically.
type JobCategory struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Type         CategoryType `db:"type" json:"type"`
	DisplayOrder int          `db:"display_order" json:"display_order"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

type ZipcodeCoordinate struct {
	Zipcode   string  `db:"zipcode" json:"zipcode"`
	City      string  `db:"city" json:"city"`
	State     string  `db:"state" json:"state"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
}
