package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventspark/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventStore keeps events in MongoDB. Sold counts only move through
// ReserveSeats and ReleaseSeats so the capacity check stays atomic.
type EventStore struct {
	coll *mongo.Collection
}

func NewEventStore(coll *mongo.Collection) *EventStore {
	return &EventStore{coll: coll}
}

func (s *EventStore) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	var event models.Event
	err := s.coll.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, models.ErrEventNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("find event %s: %w", eventID, err)
	}
	return event, nil
}

func (s *EventStore) ListEvents(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
	cursor, err := s.coll.Find(ctx, eventFilter(q), options.Find().SetSort(eventSort))
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func (s *EventStore) InsertEvent(ctx context.Context, event models.Event) error {
	if _, err := s.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// UpdateEvent rewrites the editable fields. The write only lands while the
// new capacity still covers the seats already sold.
func (s *EventStore) UpdateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	filter := bson.M{"eventid": event.EventID, "soldtickets": bson.M{"$lte": event.TotalSeats}}
	update := bson.M{"$set": bson.M{
		"name":           event.Name,
		"description":    event.Description,
		"date":           event.Date,
		"time":           event.Time,
		"venue":          event.Venue,
		"category":       event.Category,
		"imageurl":       event.ImageURL,
		"totalseats":     event.TotalSeats,
		"ticketprice":    event.TicketPrice,
		"dynamicpricing": event.DynamicPricing,
		"updated_at":     event.UpdatedAt,
	}}

	var updated models.Event
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := s.GetEvent(ctx, event.EventID); getErr != nil {
			return models.Event{}, getErr
		}
		return models.Event{}, models.Validation("Total seats cannot be less than tickets already sold")
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("update event %s: %w", event.EventID, err)
	}
	return updated, nil
}

func (s *EventStore) SetImage(ctx context.Context, eventID, imageURL string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"eventid": eventID}, bson.M{"$set": bson.M{
		"imageurl":   imageURL,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set event image: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrEventNotFound
	}
	return nil
}

func (s *EventStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"eventid": eventID})
	if err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrEventNotFound
	}
	return nil
}

// ReserveSeats increments the sold count by n if n seats are still free,
// returning the event as it stood before the increment.
func (s *EventStore) ReserveSeats(ctx context.Context, eventID string, n int) (models.Event, error) {
	update := bson.M{
		"$inc": bson.M{"soldtickets": n},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var before models.Event
	err := s.coll.FindOneAndUpdate(ctx, reserveFilter(eventID, n), update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before)).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := s.GetEvent(ctx, eventID); getErr != nil {
			return models.Event{}, getErr
		}
		return models.Event{}, models.ErrNotEnoughSeats
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("reserve %d seats on %s: %w", n, eventID, err)
	}
	return before, nil
}

func (s *EventStore) ReleaseSeats(ctx context.Context, eventID string, n int) error {
	filter := bson.M{"eventid": eventID, "soldtickets": bson.M{"$gte": n}}
	if _, err := s.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"soldtickets": -n}}); err != nil {
		return fmt.Errorf("release %d seats on %s: %w", n, eventID, err)
	}
	return nil
}

func (s *EventStore) AddRevenue(ctx context.Context, eventID string, amount float64) error {
	if _, err := s.coll.UpdateOne(ctx, bson.M{"eventid": eventID}, bson.M{"$inc": bson.M{"revenue": amount}}); err != nil {
		return fmt.Errorf("add revenue on %s: %w", eventID, err)
	}
	return nil
}
