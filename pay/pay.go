// Package pay settles booking payments. The only gateway shipped is a
// simulation; a real processor plugs in behind Gateway.
package pay

import (
	"context"
	"log"
	"math/rand"
	"sync"
)

type Charge struct {
	BookingID string
	UserID    string
	Amount    float64
	Method    string
}

// Gateway reports whether a charge went through. An error means the
// outcome is unknown, not that the card was declined.
type Gateway interface {
	Charge(ctx context.Context, c Charge) (bool, error)
}

// SimulatedGateway approves a fixed share of charges at random.
type SimulatedGateway struct {
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedGateway(successRate float64, seed int64) *SimulatedGateway {
	return &SimulatedGateway{
		successRate: successRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, c Charge) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	g.mu.Unlock()

	ok := roll < g.successRate
	log.Printf("[Pay] booking=%s amount=%.2f method=%s approved=%t", c.BookingID, c.Amount, c.Method, ok)
	return ok, nil
}

// GatewayFunc adapts a function to Gateway.
type GatewayFunc func(ctx context.Context, c Charge) (bool, error)

func (f GatewayFunc) Charge(ctx context.Context, c Charge) (bool, error) {
	return f(ctx, c)
}
