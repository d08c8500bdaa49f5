package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weather-collector/internal/domain/entity"
	"weather-collector/internal/domain/gateway/queue"
	"weather-collector/pkg/log"
	"weather-collector/pkg/msg"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrPublishAbandoned is returned once every attempt allowed by the RetryPolicy has failed
var ErrPublishAbandoned = errors.New("publish abandoned")

// RetryPolicy bounds the delivery attempts of a single Publish call.
// Attempts are separated by exactly one Sleep(Delay); a nil Sleep waits on a timer that honours ctx.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Sleep       func(time.Duration)
}

// DefaultRetryPolicy allows 5 attempts spaced 5 seconds apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Delay: 5 * time.Second}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	constant := backoff.NewConstantBackOff(p.Delay)
	return backoff.WithContext(backoff.WithMaxRetries(constant, uint64(p.attempts()-1)), ctx)
}

func (p RetryPolicy) timer() backoff.Timer {
	if p.Sleep == nil {
		return nil
	}
	return &sleepTimer{sleep: p.Sleep, c: make(chan time.Time, 1)}
}

// sleepTimer drives backoff waits through an injected sleep function
type sleepTimer struct {
	sleep func(time.Duration)
	c     chan time.Time
}

func (t *sleepTimer) Start(duration time.Duration) {
	t.sleep(duration)
	t.c <- time.Now()
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time {
	return t.c
}

type queuePublisher struct {
	sender    queue.Sender
	queueName string
	policy    RetryPolicy
}

func NewQueuePublisher(sender queue.Sender, queueName string, policy RetryPolicy) Publisher {
	return &queuePublisher{
		sender:    sender,
		queueName: queueName,
		policy:    policy,
	}
}

// Publish runs whole delivery attempts (connect, declare, publish, close) until one succeeds
// or the policy is exhausted. Every failed attempt has released its own connection.
func (p *queuePublisher) Publish(ctx context.Context, record entity.WeatherRecord) error {
	maxAttempts := p.policy.attempts()
	attempt := 0

	operation := func() error {
		attempt++
		err := p.sender.SendMessage(ctx, p.queueName, record)
		if errors.Is(err, queue.ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		log.Warn(msg.GetMessage("weather.publish.attempt-failed", attempt, maxAttempts, p.queueName, next, err),
			zap.String("queue", p.queueName),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	if err := backoff.RetryNotifyWithTimer(operation, p.policy.backOff(ctx), notify, p.policy.timer()); err != nil {
		log.Error(msg.GetMessage("weather.publish.abandoned", p.queueName, attempt, err),
			zap.String("queue", p.queueName),
			zap.Int("attempts", attempt),
			zap.Error(err))
		return fmt.Errorf("%w after %d attempts: %w", ErrPublishAbandoned, attempt, err)
	}

	log.Info(msg.GetMessage("weather.publish.success", p.queueName),
		zap.String("queue", p.queueName),
		zap.Int("attempts", attempt),
		zap.String("city", record.City))
	return nil
}
