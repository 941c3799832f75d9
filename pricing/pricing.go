// Package pricing derives the price a buyer pays from an event's base
// price and its dynamic pricing rules.
package pricing

import (
	"eventspark/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CurrentPrice applies every rule whose threshold is at or above the
// remaining seat count, in stored order, compounding the markups. The result
// is rounded to cents, half away from zero. With pricing disabled the base
// price is returned untouched.
func CurrentPrice(base float64, enabled bool, rules []models.PricingRule, remaining int) float64 {
	if !enabled {
		return base
	}

	price := decimal.NewFromFloat(base)
	for _, rule := range rules {
		if rule.Threshold >= remaining {
			markup := decimal.NewFromFloat(rule.Percentage).Div(hundred)
			price = price.Mul(decimal.NewFromInt(1).Add(markup))
		}
	}

	return price.Round(2).InexactFloat64()
}

// ForEvent prices the next seat of e given its current sold count.
func ForEvent(e models.Event) float64 {
	return CurrentPrice(e.TicketPrice, e.DynamicPricing.Enabled, e.DynamicPricing.Rules, e.Remaining())
}

// AfterSale prices a sale of quantity seats against the seat count left
// once the sale has gone through.
func AfterSale(e models.Event, quantity int) float64 {
	return CurrentPrice(e.TicketPrice, e.DynamicPricing.Enabled, e.DynamicPricing.Rules, e.Remaining()-quantity)
}

// Decorate fills the computed fields the API exposes.
func Decorate(e *models.Event) {
	e.AvailableSeats = e.Remaining()
	e.CurrentTicketPrice = ForEvent(*e)
}

// Total is the amount charged for quantity seats at price.
func Total(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Round(2).InexactFloat64()
}
