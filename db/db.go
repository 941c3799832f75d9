package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	UserCollection     *mongo.Collection
	EventsCollection   *mongo.Collection
	BookingsCollection *mongo.Collection
	Client             *mongo.Client
)

// Connect opens the MongoDB client, checks it with a ping and binds the
// collections.
func Connect(ctx context.Context, uri, database string) error {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}

	Client = client
	dbase := client.Database(database)
	UserCollection = dbase.Collection("users")
	EventsCollection = dbase.Collection("events")
	BookingsCollection = dbase.Collection("bookings")

	log.Printf("[DB] connected to %s", database)
	return nil
}

func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
