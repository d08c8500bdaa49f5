package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrLockNotHeld is returned when the lock key is missing or owned by another client
var ErrLockNotHeld = errors.New("lock was not held by this client")

const unlockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

const refreshScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`

// LockOptions represents options for distributed locking
type LockOptions struct {
	// TTL is the lock expiration time
	TTL time.Duration
	// RetryDelay is the delay between acquisition attempts
	RetryDelay time.Duration
	// MaxRetries is the maximum number of acquisition retries
	MaxRetries int
	// RefreshInterval is the interval for refreshing the lock
	RefreshInterval time.Duration
	// LockNamespace prefixes the key as namespace::key
	LockNamespace string
}

// NewLockOptions creates a new lock options with default values
func NewLockOptions() *LockOptions {
	return &LockOptions{
		TTL:             30 * time.Second,
		RetryDelay:      100 * time.Millisecond,
		MaxRetries:      10,
		RefreshInterval: 10 * time.Second,
	}
}

// DefaultLockOptions returns default lock options
func DefaultLockOptions() *LockOptions {
	return NewLockOptions()
}

// Lock represents a distributed lock owned by a random value
type Lock struct {
	client *Client
	key    string
	value  string
	opts   *LockOptions
}

// NewLock creates a new distributed lock
func NewLock(client *Client, key string, opts *LockOptions) *Lock {
	if opts == nil {
		opts = DefaultLockOptions()
	}
	return &Lock{
		client: client,
		key:    key,
		value:  uuid.NewString(),
		opts:   opts,
	}
}

// Key returns the full lock key using the LockNamespace::lockKey format
func (l *Lock) Key() string {
	if l.opts.LockNamespace != "" {
		return l.opts.LockNamespace + "::" + l.key
	}
	return l.key
}

// Lock attempts to acquire the lock, retrying up to MaxRetries times
func (l *Lock) Lock(ctx context.Context) error {
	fullKey := l.Key()
	for attempt := 0; attempt <= l.opts.MaxRetries; attempt++ {
		acquired, err := l.client.GetClient().SetNX(ctx, fullKey, l.value, l.opts.TTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
		}
		if acquired {
			return nil
		}

		if attempt == l.opts.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.opts.RetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock %s after %d attempts", fullKey, l.opts.MaxRetries+1)
}

// Unlock releases the lock if it is still owned by this client
func (l *Lock) Unlock(ctx context.Context) error {
	result, err := l.client.GetClient().Eval(ctx, unlockScript, []string{l.Key()}, l.value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Refresh extends the lock's TTL
func (l *Lock) Refresh(ctx context.Context) error {
	result, err := l.client.GetClient().Eval(ctx, refreshScript, []string{l.Key()}, l.value, l.opts.TTL.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("failed to refresh lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// IsLocked checks if the lock is currently held by this client
func (l *Lock) IsLocked(ctx context.Context) (bool, error) {
	value, err := l.client.Get(ctx, l.Key())
	if err != nil {
		return false, err
	}
	return value == l.value, nil
}

// AutoRefresh refreshes the lock every RefreshInterval until ctx ends or a refresh fails.
// The returned channel receives exactly one error: the refresh failure or ctx.Err().
func (l *Lock) AutoRefresh(ctx context.Context) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(l.opts.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			case <-ticker.C:
				if err := l.Refresh(ctx); err != nil {
					errChan <- err
					return
				}
			}
		}
	}()

	return errChan
}
