package db

import (
	"context"
	"errors"
	"testing"

	"eventspark/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func seatBatch() []models.Booking {
	return []models.Booking{
		{BookingID: "b-1", EventID: "ev-1", UserID: "u-1", SeatNumber: "A1", Status: models.BookingActive},
		{BookingID: "b-2", EventID: "ev-1", UserID: "u-1", SeatNumber: "A2", Status: models.BookingActive},
	}
}

func TestInsertBookings(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("whole batch lands", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, NewBookingStore(mt.Coll).InsertBookings(context.Background(), seatBatch()))
	})

	mt.Run("duplicate seat rolls back and reports seat taken", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 1, Code: 11000, Message: "E11000 duplicate key error uniq_active_seat"}),
			mtest.CreateSuccessResponse(),
		)

		err := NewBookingStore(mt.Coll).InsertBookings(context.Background(), seatBatch())
		assert.ErrorIs(mt, err, models.ErrSeatTaken)
	})

	mt.Run("failed rollback surfaces", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error uniq_active_seat"}),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad delete"}),
		)

		err := NewBookingStore(mt.Coll).InsertBookings(context.Background(), seatBatch())
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, models.ErrSeatTaken))
		assert.Contains(mt, err.Error(), "roll back partial batch")
	})

	mt.Run("other write errors pass through", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "document failed validation"}))

		err := NewBookingStore(mt.Coll).InsertBookings(context.Background(), seatBatch())
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, models.ErrSeatTaken))
	})
}
