package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	"weather-collector/internal/domain/gateway/queue"
	"weather-collector/pkg/amqp"
)

// SenderAdapter adapts the pkg/amqp.Sender to implement domain queue.Sender interface
type SenderAdapter struct {
	sender *amqp.Sender
}

// NewSenderAdapter creates a new RabbitMQ sender adapter that implements domain interface
func NewSenderAdapter(sender *amqp.Sender) *SenderAdapter {
	return &SenderAdapter{sender: sender}
}

var _ queue.Sender = (*SenderAdapter)(nil)

// SendMessage implements the domain interface
func (adapter *SenderAdapter) SendMessage(ctx context.Context, queueName string, body any) error {
	err := adapter.sender.SendMessage(ctx, queueName, body)
	if errors.Is(err, amqp.ErrSerialization) {
		return fmt.Errorf("%w: %w", queue.ErrPermanent, err)
	}
	return err
}

// Ping reports whether the broker accepts connections
func (adapter *SenderAdapter) Ping() error {
	return adapter.sender.Ping()
}
