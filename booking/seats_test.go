package booking

import (
	"testing"

	"eventspark/models"

	"github.com/stretchr/testify/assert"
)

func TestSeatLabels(t *testing.T) {
	assert.Empty(t, SeatLabels(0))
	assert.Equal(t, []string{"A1", "A2", "A3"}, SeatLabels(3))

	labels := SeatLabels(23)
	assert.Len(t, labels, 23)
	assert.Equal(t, "A10", labels[9])
	assert.Equal(t, "B1", labels[10])
	assert.Equal(t, "C3", labels[22])
}

func TestSeatMap(t *testing.T) {
	seats := SeatMap(4, []string{"A2", "A4", "Z9"})

	assert.Equal(t, []models.Seat{
		{SeatNumber: "A1", IsAvailable: true},
		{SeatNumber: "A2", IsAvailable: false},
		{SeatNumber: "A3", IsAvailable: true},
		{SeatNumber: "A4", IsAvailable: false},
	}, seats)
}

func TestValidateSeats(t *testing.T) {
	assert.NoError(t, validateSeats(12, []string{"A1", "B2"}))
	assert.ErrorContains(t, validateSeats(12, []string{"B3"}), "Invalid seat number: B3")
	assert.ErrorContains(t, validateSeats(12, []string{"A1", "A1"}), "Duplicate seat number: A1")
	assert.Equal(t, models.KindValidation, models.KindOf(validateSeats(12, []string{""})))
}
