package amqp

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel defines the channel operations used to publish messages. *amqp.Channel satisfies it.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Connection defines the connection operations used to publish messages
type Connection interface {
	Channel() (Channel, error)
	Close() error
}

// DialFunc opens a connection to the broker at url
type DialFunc func(url string) (Connection, error)

// Dial opens an AMQP 0-9-1 connection using amqp091-go
func Dial(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return &connection{conn: conn}, nil
}

type connection struct {
	conn *amqp.Connection
}

func (c *connection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (c *connection) Close() error {
	return c.conn.Close()
}
