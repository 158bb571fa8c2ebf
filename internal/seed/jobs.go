package seed

import (
	"context"
	"fmt"
	"time"

	"handraise/internal/store"
	"handraise/pkg/types"
)

// SeedJobs posts a handful of demo openings owned by the coordinator account.
// Skipped entirely once any job exists, so re-seeding never duplicates them.
func SeedJobs(ctx context.Context, jobs *store.JobRepository, users *store.UserRepository) error {
	params := types.JobSearchParams{}
	params.Normalize()
	if _, total, err := jobs.Search(ctx, params); err != nil {
		return fmt.Errorf("check existing jobs: %w", err)
	} else if total > 0 {
		return nil
	}

	owner, err := users.UserByUsername(ctx, "coordinator")
	if err != nil {
		return fmt.Errorf("look up coordinator account: %w", err)
	}

	expires := time.Now().Add(60 * 24 * time.Hour)
	demo := []types.Job{
		{
			Title:            "Food bank sorting shift",
			Description:      "Sort and shelve incoming donations on Saturday mornings.",
			Category:         "community-support:food-banks-pantries",
			Skills:           "lifting, organization",
			JobLocation:      types.JobLocation{City: "Denver", State: "CO", Zipcode: "80202"},
			VolunteersNeeded: 6,
			Urgency:          2,
		},
		{
			Title:            "After-school tutoring",
			Description:      "Help middle schoolers with math homework, two afternoons a week.",
			Category:         "education:tutoring",
			Skills:           "math, patience",
			JobLocation:      types.JobLocation{City: "Boulder", State: "CO", Zipcode: "80301"},
			VolunteersNeeded: 4,
			Urgency:          1,
		},
		{
			Title:            "Trail restoration crew",
			Description:      "Rebuild washed-out sections of the foothills trail network.",
			Category:         "environment",
			Skills:           "outdoor work",
			JobLocation:      types.JobLocation{City: "Fort Collins", State: "CO", Zipcode: "80521"},
			VolunteersNeeded: 10,
			Urgency:          3,
		},
	}

	for i := range demo {
		demo[i].PostedBy = owner.ID
		demo[i].Status = types.JobStatusActive
		demo[i].ExpiresAt = expires
		if err := jobs.CreateJob(ctx, &demo[i]); err != nil {
			return fmt.Errorf("create demo job %q: %w", demo[i].Title, err)
		}
	}

	return nil
}
