package queue

import (
	"context"
	"errors"
)

// ErrPermanent marks a send failure that another attempt cannot fix
var ErrPermanent = errors.New("permanent send failure")

// Sender delivers a message body to a named durable queue in a single attempt
type Sender interface {
	SendMessage(ctx context.Context, queueName string, body any) error
}
