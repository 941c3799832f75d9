package models

// BookingConfirmation is handed to the notification collaborator once a
// payment completes.
type BookingConfirmation struct {
	BookingID   string  `json:"bookingId"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	EventName   string  `json:"eventName"`
	SeatNumber  string  `json:"seatNumber"`
	TicketPrice float64 `json:"ticketPrice"`
	QRCode      string  `json:"qrCode"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Venue       string  `json:"venue"`
}

// RoleChange tells a user an admin moved them to a new role.
type RoleChange struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
