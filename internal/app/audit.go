package app

import (
	"encoding/json"
	"fmt"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// AuditHandler returns a consumer that writes each domain event to log.
// Undecodable messages are reported as errors so the consumer rejects them.
func AuditHandler(log *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event struct {
			services.Event
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("decode event %s: %w", msg.RoutingKey, err)
		}

		log.Info("Domain event",
			zap.String("type", event.Type),
			zap.String("routing_key", msg.RoutingKey),
			zap.Time("occurred_at", event.OccurredAt),
			zap.ByteString("data", event.Data),
		)
		return nil
	}
}
