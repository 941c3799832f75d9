package booking

import (
	"fmt"

	"eventspark/models"
)

const seatsPerRow = 10

// SeatLabels lays out total seats in rows of ten: A1..A10, B1..B10 and so on.
func SeatLabels(total int) []string {
	if total <= 0 {
		return []string{}
	}
	labels := make([]string, 0, total)
	rows := (total + seatsPerRow - 1) / seatsPerRow
	for row := 0; row < rows; row++ {
		rowLetter := string(rune('A' + row))
		for seat := 1; seat <= seatsPerRow && len(labels) < total; seat++ {
			labels = append(labels, fmt.Sprintf("%s%d", rowLetter, seat))
		}
	}
	return labels
}

// SeatMap marks each synthesized label as available unless an active
// booking holds it.
func SeatMap(total int, booked []string) []models.Seat {
	taken := make(map[string]struct{}, len(booked))
	for _, label := range booked {
		taken[label] = struct{}{}
	}

	labels := SeatLabels(total)
	seats := make([]models.Seat, len(labels))
	for i, label := range labels {
		_, isTaken := taken[label]
		seats[i] = models.Seat{SeatNumber: label, IsAvailable: !isTaken}
	}
	return seats
}

func validateSeats(total int, seatNumbers []string) error {
	valid := make(map[string]struct{}, total)
	for _, label := range SeatLabels(total) {
		valid[label] = struct{}{}
	}

	seen := make(map[string]struct{}, len(seatNumbers))
	for _, seat := range seatNumbers {
		if seat == "" {
			return models.Validation("Seat number is required")
		}
		if _, ok := valid[seat]; !ok {
			return models.Validation("Invalid seat number: %s", seat)
		}
		if _, dup := seen[seat]; dup {
			return models.Validation("Duplicate seat number: %s", seat)
		}
		seen[seat] = struct{}{}
	}
	return nil
}
