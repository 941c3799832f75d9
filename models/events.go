package models

import "time"

type Event struct {
	EventID        string         `json:"eventId" bson:"eventid"`
	Name           string         `json:"name" bson:"name"`
	Description    string         `json:"description" bson:"description"`
	Date           string         `json:"date" bson:"date"` // YYYY-MM-DD
	Time           string         `json:"time" bson:"time"` // HH:MM
	Venue          string         `json:"venue" bson:"venue"`
	Category       string         `json:"category" bson:"category"`
	ImageURL       string         `json:"imageUrl,omitempty" bson:"imageurl,omitempty"`
	TotalSeats     int            `json:"totalSeats" bson:"totalseats"`
	TicketPrice    float64        `json:"ticketPrice" bson:"ticketprice"`
	DynamicPricing DynamicPricing `json:"dynamicPricing" bson:"dynamicpricing"`
	SoldTickets    int            `json:"soldTickets" bson:"soldtickets"`
	Revenue        float64        `json:"revenue" bson:"revenue"`
	CreatedBy      string         `json:"createdBy" bson:"createdby"`
	CreatedAt      time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updated_at"`

	// Computed fields for the frontend
	AvailableSeats     int     `json:"availableSeats" bson:"-"`
	CurrentTicketPrice float64 `json:"currentTicketPrice" bson:"-"`
}

type DynamicPricing struct {
	Enabled bool          `json:"enabled" bson:"enabled"`
	Rules   []PricingRule `json:"rules" bson:"rules"`
}

// PricingRule marks the price up by Percentage once the remaining seats
// drop to Threshold or below.
type PricingRule struct {
	Threshold   int     `json:"threshold" bson:"threshold"`
	Percentage  float64 `json:"percentage" bson:"percentage"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
}

// Remaining may go negative for an oversold event.
func (e Event) Remaining() int {
	return e.TotalSeats - e.SoldTickets
}

// EventSummary is the trimmed view returned alongside bookings.
type EventSummary struct {
	EventID  string `json:"eventId"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    string `json:"venue"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func (e Event) Summary() EventSummary {
	return EventSummary{
		EventID:  e.EventID,
		Name:     e.Name,
		Date:     e.Date,
		Time:     e.Time,
		Venue:    e.Venue,
		ImageURL: e.ImageURL,
	}
}

// EventQuery is the store-level filter for listing events. Zero values
// mean "no restriction".
type EventQuery struct {
	Category  string
	Date      string
	Search    string
	CreatedBy string
	DateAfter string
}
