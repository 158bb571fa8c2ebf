package seed

import (
	"context"
	"fmt"

	"handraise/internal/store"
	"handraise/pkg/types"
)

// SeedZipcodes loads a small reference set of coordinates. Production
// deployments replace this with a full national import; the set below covers
// the demo jobs and keeps radius search usable out of the box.
func SeedZipcodes(ctx context.Context, repo *store.ZipcodeRepository) error {
	coordinates := []types.ZipcodeCoordinate{
		{Zipcode: "80202", City: "Denver", State: "CO", Latitude: 39.7508, Longitude: -104.9966},
		{Zipcode: "80301", City: "Boulder", State: "CO", Latitude: 40.0498, Longitude: -105.2077},
		{Zipcode: "80501", City: "Longmont", State: "CO", Latitude: 40.1686, Longitude: -105.1005},
		{Zipcode: "80903", City: "Colorado Springs", State: "CO", Latitude: 38.8339, Longitude: -104.8214},
		{Zipcode: "80631", City: "Greeley", State: "CO", Latitude: 40.4167, Longitude: -104.6914},
		{Zipcode: "81001", City: "Pueblo", State: "CO", Latitude: 38.2800, Longitude: -104.5884},
		{Zipcode: "80521", City: "Fort Collins", State: "CO", Latitude: 40.5937, Longitude: -105.1055},
		{Zipcode: "81601", City: "Glenwood Springs", State: "CO", Latitude: 39.5455, Longitude: -107.3248},
	}

	for _, coord := range coordinates {
		if err := repo.UpsertCoordinate(ctx, &coord); err != nil {
			return fmt.Errorf("upsert zipcode %s: %w", coord.Zipcode, err)
		}
	}

	return nil
}
