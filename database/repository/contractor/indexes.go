package contractorRepo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ensureIndexes creates indexes for frequently used fields in queries.
func (r *MongoContractorRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	idIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}},
	}
	geoIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "locationGeo", Value: "2dsphere"}},
	}
	serviceIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "certifications", Value: 1},
			{Key: "specialties", Value: 1},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{idIdx, geoIdx, serviceIdx})
	return err
}
