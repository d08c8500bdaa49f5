package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"weather-collector/pkg/log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrSerialization marks a body that could not be encoded; sending it again cannot succeed.
var ErrSerialization = errors.New("failed to serialize message body")

// Sender handles sending messages to durable AMQP queues. Each call owns its own
// connection and channel, which are released before returning.
type Sender struct {
	url  string
	dial DialFunc
}

// NewSender creates and returns a new Sender. A nil dial uses Dial.
func NewSender(url string, dial DialFunc) *Sender {
	if dial == nil {
		dial = Dial
	}
	return &Sender{
		url:  url,
		dial: dial,
	}
}

// SendMessage serializes the provided body to JSON, declares queueName as durable and
// publishes the body to it with persistent delivery through the default exchange.
func (s *Sender) SendMessage(ctx context.Context, queueName string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	conn, err := s.dial(s.url)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer closeQuietly("connection", conn.Close)

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer closeQuietly("channel", ch.Close)

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	err = ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         jsonBody,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message to queue %s: %w", queueName, err)
	}

	return nil
}

// Ping opens and closes a connection to check the broker is reachable
func (s *Sender) Ping() error {
	conn, err := s.dial(s.url)
	if err != nil {
		return err
	}
	return conn.Close()
}

func closeQuietly(resource string, closeFn func() error) {
	if err := closeFn(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		log.Warn("failed to close amqp resource", zap.String("resource", resource), zap.Error(err))
	}
}
