package events

import (
	"strings"
	"time"

	"eventspark/models"
)

// EventInput carries the writable fields of an event. Nil pointers and
// empty strings leave the current value alone on update.
type EventInput struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Date           string                 `json:"date"`
	Time           string                 `json:"time"`
	Venue          string                 `json:"venue"`
	Category       string                 `json:"category"`
	ImageURL       string                 `json:"imageUrl"`
	TotalSeats     *int                   `json:"totalSeats"`
	TicketPrice    *float64               `json:"ticketPrice"`
	DynamicPricing *models.DynamicPricing `json:"dynamicPricing"`
}

func (in EventInput) apply(e *models.Event) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&e.Name, in.Name)
	set(&e.Description, in.Description)
	set(&e.Date, in.Date)
	set(&e.Time, in.Time)
	set(&e.Venue, in.Venue)
	set(&e.Category, in.Category)
	set(&e.ImageURL, in.ImageURL)
	if in.TotalSeats != nil {
		e.TotalSeats = *in.TotalSeats
	}
	if in.TicketPrice != nil {
		e.TicketPrice = *in.TicketPrice
	}
	if in.DynamicPricing != nil {
		e.DynamicPricing = *in.DynamicPricing
	}
}

func validateEvent(e models.Event) error {
	required := []struct {
		name, value string
	}{
		{"name", e.Name},
		{"description", e.Description},
		{"date", e.Date},
		{"time", e.Time},
		{"venue", e.Venue},
		{"category", e.Category},
	}
	for _, f := range required {
		if f.value == "" {
			return models.Validation("%s is required", f.name)
		}
	}

	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return models.Validation("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", e.Time); err != nil {
		return models.Validation("time must be HH:MM")
	}
	if e.TotalSeats < 0 {
		return models.Validation("totalSeats cannot be negative")
	}
	if e.TicketPrice < 0 {
		return models.Validation("Ticket price cannot be negative")
	}
	for i, rule := range e.DynamicPricing.Rules {
		if rule.Threshold < 0 || rule.Percentage < 0 {
			return models.Validation("pricing rule %d: threshold and percentage must be non-negative", i+1)
		}
	}
	if e.TotalSeats < e.SoldTickets {
		return models.Validation("Total seats cannot be less than tickets already sold")
	}
	return nil
}
