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

type BookingStore struct {
	coll *mongo.Collection
}

func NewBookingStore(coll *mongo.Collection) *BookingStore {
	return &BookingStore{coll: coll}
}

func (s *BookingStore) ActiveSeatNumbers(ctx context.Context, eventID string) ([]string, error) {
	cursor, err := s.coll.Find(ctx, activeSeatsFilter(eventID, nil),
		options.Find().SetProjection(bson.M{"seatnumber": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var seats []string
	for cursor.Next(ctx) {
		var b struct {
			SeatNumber string `bson:"seatnumber"`
		}
		if err := cursor.Decode(&b); err != nil {
			return nil, err
		}
		seats = append(seats, b.SeatNumber)
	}
	return seats, cursor.Err()
}

func (s *BookingStore) FindActiveBySeats(ctx context.Context, eventID string, seats []string) ([]models.Booking, error) {
	cursor, err := s.coll.Find(ctx, activeSeatsFilter(eventID, seats))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// InsertBookings writes the batch in order. A duplicate key on the active
// seat index rolls back whatever part of the batch already landed.
func (s *BookingStore) InsertBookings(ctx context.Context, bookings []models.Booking) error {
	docs := make([]any, len(bookings))
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		docs[i] = b
		ids[i] = b.BookingID
	}

	_, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		if delErr := s.DeleteBookings(ctx, ids); delErr != nil {
			return fmt.Errorf("roll back partial batch: %w", delErr)
		}
		return models.ErrSeatTaken
	}
	return err
}

func (s *BookingStore) DeleteBookings(ctx context.Context, bookingIDs []string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"bookingid": bson.M{"$in": bookingIDs}})
	return err
}

func (s *BookingStore) GetBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	var b models.Booking
	err := s.coll.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Booking{}, models.ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	return b, nil
}

func (s *BookingStore) SetPaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) (models.Booking, error) {
	update := bson.M{"$set": bson.M{
		"paymentstatus": status,
		"updated_at":    time.Now().UTC(),
	}}

	var b models.Booking
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"bookingid": bookingID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Booking{}, models.ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", bookingID, err)
	}
	return b, nil
}

func (s *BookingStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
