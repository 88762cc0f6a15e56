package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitzel3/fuel-log/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrRecordNotFound is reported when an update or delete matches no row.
// The source behavior was a silent no-op; reporting not-found is a
// deliberate choice here so a stale selection surfaces instead of
// pretending to succeed.
var ErrRecordNotFound = errors.New("refuel record not found")

const refuelSequence = "fuel_refuels"

// RefuelCollection defines the store operations for refuel records.
type RefuelCollection interface {
	Insert(ctx context.Context, rec models.RefuelRecord) error
	ListAll(ctx context.Context) ([]models.RefuelRecord, error)
	Update(ctx context.Context, id int64, fields models.RefuelUpdate) error
	Delete(ctx context.Context, id int64) error
}

// MongoRefuelCollection implements RefuelCollection against the hosted
// store. Counters holds the id sequence document.
type MongoRefuelCollection struct {
	Collection *mongo.Collection
	Counters   *mongo.Collection
}

// Insert assigns the next store id and writes the record. Callers must not
// assume the assigned id is returned to them; they re-list to see it.
func (c *MongoRefuelCollection) Insert(ctx context.Context, rec models.RefuelRecord) error {
	if c.Collection == nil || c.Counters == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	id, err := nextSequence(ctx, c.Counters, refuelSequence)
	if err != nil {
		return err
	}
	rec.ID = id
	_, err = c.Collection.InsertOne(ctx, rec)
	return err
}

// ListAll returns every record, newest id first. The store is authoritative
// for the ordering.
func (c *MongoRefuelCollection) ListAll(ctx context.Context) ([]models.RefuelRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.RefuelRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update replaces the mutable fields of the row matching id. The dt and
// created_at columns are never touched.
func (c *MongoRefuelCollection) Update(ctx context.Context, id int64, fields models.RefuelUpdate) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the row matching id.
func (c *MongoRefuelCollection) Delete(ctx context.Context, id int64) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
