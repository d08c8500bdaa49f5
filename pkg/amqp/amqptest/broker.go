// Package amqptest provides an in-memory broker double for code built on pkg/amqp.
package amqptest

import (
	"context"
	"errors"
	"sync"

	pkgamqp "weather-collector/pkg/amqp"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDialRefused is the default dial failure used by FailDials.
var ErrDialRefused = errors.New("dial tcp 127.0.0.1:5672: connect: connection refused")

// Declaration records one QueueDeclare call.
type Declaration struct {
	Name       string
	Durable    bool
	AutoDelete bool
	Exclusive  bool
}

// Delivery records one published message.
type Delivery struct {
	Exchange   string
	RoutingKey string
	Publishing amqp.Publishing
}

// Broker scripts dial outcomes and records what was declared and published.
type Broker struct {
	mu sync.Mutex

	dialErrs    []error
	declareErrs []error
	publishErrs []error

	DialCalls    int
	Declarations []Declaration
	Deliveries   []Delivery
	OpenConns    int
	OpenChannels int
}

// FailDials makes the next n dials fail with err, or ErrDialRefused when err is nil.
func (b *Broker) FailDials(n int, err error) *Broker {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		err = ErrDialRefused
	}
	for i := 0; i < n; i++ {
		b.dialErrs = append(b.dialErrs, err)
	}
	return b
}

// FailDeclares makes the next n queue declarations fail with err.
func (b *Broker) FailDeclares(n int, err error) *Broker {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		b.declareErrs = append(b.declareErrs, err)
	}
	return b
}

// FailPublishes makes the next n publishes fail with err.
func (b *Broker) FailPublishes(n int, err error) *Broker {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		b.publishErrs = append(b.publishErrs, err)
	}
	return b
}

// Dial satisfies pkg/amqp.DialFunc.
func (b *Broker) Dial(string) (pkgamqp.Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DialCalls++
	if err := pop(&b.dialErrs); err != nil {
		return nil, err
	}
	b.OpenConns++
	return &connection{broker: b}, nil
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

type connection struct {
	broker *Broker
	closed bool
}

func (c *connection) Channel() (pkgamqp.Channel, error) {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	if c.closed {
		return nil, amqp.ErrClosed
	}
	c.broker.OpenChannels++
	return &channel{broker: c.broker}, nil
}

func (c *connection) Close() error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	if c.closed {
		return amqp.ErrClosed
	}
	c.closed = true
	c.broker.OpenConns--
	return nil
}

type channel struct {
	broker *Broker
	closed bool
}

func (ch *channel) QueueDeclare(name string, durable, autoDelete, exclusive, _ bool, _ amqp.Table) (amqp.Queue, error) {
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()
	if err := pop(&ch.broker.declareErrs); err != nil {
		return amqp.Queue{}, err
	}
	ch.broker.Declarations = append(ch.broker.Declarations, Declaration{
		Name:       name,
		Durable:    durable,
		AutoDelete: autoDelete,
		Exclusive:  exclusive,
	})
	return amqp.Queue{Name: name}, nil
}

func (ch *channel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()
	if err := pop(&ch.broker.publishErrs); err != nil {
		return err
	}
	ch.broker.Deliveries = append(ch.broker.Deliveries, Delivery{
		Exchange:   exchange,
		RoutingKey: key,
		Publishing: msg,
	})
	return nil
}

func (ch *channel) Close() error {
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()
	if ch.closed {
		return amqp.ErrClosed
	}
	ch.closed = true
	ch.broker.OpenChannels--
	return nil
}
