package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activeSeatIndex lets at most one active booking hold a seat label per
// event. Cancelled and refunded bookings fall outside the partial filter.
func activeSeatIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "eventid", Value: 1}, {Key: "seatnumber", Value: 1}},
		Options: options.Index().
			SetName("uniq_active_seat").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "active"}),
	}
}

// EnsureIndexes creates the indexes the stores rely on. It is safe to run on
// every start.
func EnsureIndexes(ctx context.Context) error {
	if _, err := BookingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		activeSeatIndex(),
		{Keys: bson.D{{Key: "bookingid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userid", Value: 1}, {Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("booking indexes: %w", err)
	}

	if _, err := EventsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdby", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("event indexes: %w", err)
	}

	if _, err := UserCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	return nil
}
