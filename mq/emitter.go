package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"eventspark/models"

	"github.com/redis/go-redis/v9"
)

const (
	ConfirmationsChannel = "booking-confirmations"
	RoleChangesChannel   = "role-changes"
)

// Emitter publishes notifications to Redis for the worker to deliver.
type Emitter struct {
	rdb redis.Cmdable
}

func NewEmitter(rdb redis.Cmdable) *Emitter {
	return &Emitter{rdb: rdb}
}

func (e *Emitter) BookingConfirmed(ctx context.Context, msg models.BookingConfirmation) error {
	return e.publish(ctx, ConfirmationsChannel, msg)
}

func (e *Emitter) RoleChanged(ctx context.Context, msg models.RoleChange) error {
	return e.publish(ctx, RoleChangesChannel, msg)
}

func (e *Emitter) publish(ctx context.Context, channel string, content any) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", channel, err)
	}
	if err := e.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	log.Printf("[Emit] message published to channel '%s'", channel)
	return nil
}
