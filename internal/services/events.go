package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Routing keys of the domain events.
const (
	EventUserRegistered  = "user.registered"
	EventUserDeleted     = "user.deleted"
	EventAdminRegistered = "admin.registered"
	EventAdminDeleted    = "admin.deleted"
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventCartItemAdded   = "cart.item_added"
)

// EventPublisher delivers an encoded event under a routing key.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Event is the envelope every domain event is published in.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// events publishes best effort: a failed publish is logged, never returned.
type events struct {
	pub EventPublisher
	log *zap.Logger
}

func (e events) emit(ctx context.Context, routingKey string, data any) {
	if e.pub == nil {
		return
	}

	body, err := json.Marshal(Event{Type: routingKey, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		e.log.Warn("Failed to marshal event", zap.String("event", routingKey), zap.Error(err))
		return
	}

	if err := e.pub.Publish(ctx, routingKey, body); err != nil {
		e.log.Warn("Failed to publish event", zap.String("event", routingKey), zap.Error(err))
		return
	}
	e.log.Debug("Event published", zap.String("event", routingKey))
}
