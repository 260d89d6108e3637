package contractorRepo

import (
	"context"
	"fmt"
	"time"

	"fixmate/database"
	"fixmate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoContractorRepo implements ContractorRepository using MongoDB.
type MongoContractorRepo struct {
	coll *mongo.Collection
}

// NewMongoContractorRepo creates a new instance of ContractorRepository using MongoDB.
func NewMongoContractorRepo() ContractorRepository {
	coll := database.MongoClient.Database("fixmate").Collection("contractors")
	repo := &MongoContractorRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		// Index creation failing should not take the service down; queries
		// still work, just slower.
		fmt.Printf("contractor repo: failed to ensure indexes: %v\n", err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoContractorRepo) GetByID(id string) (*models.ContractorProfile, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var contractor models.ContractorProfile
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&contractor); err != nil {
		return nil, fmt.Errorf("failed to fetch contractor with id %s: %w", id, err)
	}
	return &contractor, nil
}

func (r *MongoContractorRepo) GetByService(serviceID string) ([]models.ContractorProfile, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"certifications": serviceID},
		bson.M{"specialties": serviceID},
	}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find contractors for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	var contractors []models.ContractorProfile
	if err := cursor.All(ctx, &contractors); err != nil {
		return nil, fmt.Errorf("failed to decode contractors: %w", err)
	}
	return contractors, nil
}

func (r *MongoContractorRepo) Create(contractor *models.ContractorProfile) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	contractor.UpdatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, contractor); err != nil {
		return fmt.Errorf("failed to create contractor: %w", err)
	}
	return nil
}

func (r *MongoContractorRepo) Update(contractor *models.ContractorProfile) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	contractor.UpdatedAt = time.Now()
	filter := bson.M{"id": contractor.ID}
	update := bson.M{"$set": contractor}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update contractor with id %s: %w", contractor.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contractor with id %s not found", contractor.ID)
	}
	return nil
}

func (r *MongoContractorRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete contractor with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("contractor with id %s not found", id)
	}
	return nil
}
