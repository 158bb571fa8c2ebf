package seed

import (
	"context"
	"fmt"

	"handraise/internal/store"
	"handraise/pkg/types"
)

// SeedCategories syncs the database taxonomy rows with the definitions below.
// This file is the source of truth for the admin-editable catalog:
// - Inserts new categories that don't exist
// - Updates existing categories that have changed
//
// To generate new IDs: `go run ./cmd/handraise nanoid`
func SeedCategories(ctx context.Context, repo *store.CategoryRepository) error {
	// fixed IDs keep re-seeding idempotent
	categories := []types.JobCategory{
		{
			ID:           "q2mwSVxTG0d9HcJ7pYNKLa4Ue8ZoBnRi",
			Name:         "Community Support",
			Type:         types.CategoryTypeVolunteer,
			DisplayOrder: 1,
			IsActive:     true,
		},
		{
			ID:           "fA7dKpW3mN1cRxY5tQvZ8jLeU0oBhGs2",
			Name:         "Education & Mentoring",
			Type:         types.CategoryTypeVolunteer,
			DisplayOrder: 2,
			IsActive:     true,
		},
		{
			ID:           "Xy4JnT8bVq6wEr2aSd0fGh1kLz9cMpU3",
			Name:         "Health & Wellness",
			Type:         types.CategoryTypeVolunteer,
			DisplayOrder: 3,
			IsActive:     true,
		},
		{
			ID:           "Bc5LmP9dRt3vWx7yZq1eKf4gHj8nSa0U",
			Name:         "Environment & Conservation",
			Type:         types.CategoryTypeVolunteer,
			DisplayOrder: 4,
			IsActive:     true,
		},
		{
			ID:           "Gh2KjD6fSw9qAz4xCv8bNm1lQp5rTe7Y",
			Name:         "Disaster Relief",
			Type:         types.CategoryTypeVolunteer,
			DisplayOrder: 5,
			IsActive:     true,
		},
		{
			ID:           "Vt8NwQ1cXe5rBy3uJi7oKa9sLd2fMg6Z",
			Name:         "Partner Organizations",
			Type:         types.CategoryTypeRequester,
			DisplayOrder: 6,
			IsActive:     true,
		},
	}

	for i := range categories {
		if err := repo.UpsertCategory(ctx, &categories[i]); err != nil {
			return fmt.Errorf("upsert category %s: %w", categories[i].Name, err)
		}
	}

	return nil
}
