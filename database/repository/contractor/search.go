package contractorRepo

import (
	"fmt"
	"time"

	"fixmate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Search performs the candidate pool query: geo-anchored, filtered by service
// credential, sorted nearest-first. Fitness ranking happens in the matching
// service; this only narrows the pool.
func (r *MongoContractorRepo) Search(criteria ContractorSearchCriteria) ([]models.ContractorProfile, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	var pipeline mongo.Pipeline

	// $geoNear must come first to filter and sort by distance.
	if criteria.MaxDistanceKm > 0 && len(criteria.LocationGeo.Coordinates) == 2 {
		pipeline = append(pipeline, bson.D{
			{Key: "$geoNear", Value: bson.D{
				{Key: "near", Value: bson.D{
					{Key: "type", Value: "Point"},
					{Key: "coordinates", Value: criteria.LocationGeo.Coordinates},
				}},
				{Key: "distanceField", Value: "distance"},
				{Key: "spherical", Value: true},
				{Key: "maxDistance", Value: criteria.MaxDistanceKm * 1000},
			}},
		})
	}

	matchFilter := bson.M{}
	if criteria.ServiceID != "" {
		matchFilter["$or"] = bson.A{
			bson.M{"certifications": criteria.ServiceID},
			bson.M{"specialties": criteria.ServiceID},
		}
	}
	if criteria.MinRating > 0 {
		matchFilter["rating"] = bson.M{"$gte": criteria.MinRating}
	}
	if len(matchFilter) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: matchFilter}})
	}

	if criteria.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: criteria.Limit}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("contractor search query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var contractors []models.ContractorProfile
	if err := cursor.All(ctx, &contractors); err != nil {
		return nil, fmt.Errorf("failed to decode contractors: %w", err)
	}
	return contractors, nil
}
