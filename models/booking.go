package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingRefunded  BookingStatus = "refunded"
)

type Booking struct {
	BookingID     string        `json:"bookingId" bson:"bookingid"`
	EventID       string        `json:"eventId" bson:"eventid"`
	UserID        string        `json:"userId" bson:"userid"`
	SeatNumber    string        `json:"seatNumber" bson:"seatnumber"`
	TicketPrice   float64       `json:"ticketPrice" bson:"ticketprice"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentstatus"`
	Status        BookingStatus `json:"status" bson:"status"`
	QRCode        string        `json:"qrCode" bson:"qrcode"`
	BookingDate   time.Time     `json:"bookingDate" bson:"bookingdate"`
	CreatedAt     time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updated_at"`
}

func (b Booking) IsActive() bool {
	return b.Status == BookingActive
}

// BookingView is a booking joined with the event it belongs to.
type BookingView struct {
	Booking
	Event *EventSummary `json:"event,omitempty"`
}

type Seat struct {
	SeatNumber  string `json:"seatNumber"`
	IsAvailable bool   `json:"isAvailable"`
}
