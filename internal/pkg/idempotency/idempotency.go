// Package idempotency guards retried operations behind a Redis state key.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInProgress   = errors.New("operation already in progress")
	ErrCompleted    = errors.New("operation already completed")
	ErrFailed       = errors.New("operation previously failed")
	ErrInvalidState = errors.New("invalid idempotency state")
)

// State is the lifecycle of one idempotency key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateError      State = "error"
)

func (s State) String() string { return string(s) }

// Idempotency coordinates exactly-once execution for a keyed operation.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

// Option configures Exec.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration sets how long the in-progress lock is held.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long the terminal state is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// StateTracker implements Idempotency on a Redis key per operation.
type StateTracker struct {
	client *redis.Client
	prefix string
}

// New builds a StateTracker.
func New(client *redis.Client) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:"}
}

func (s *StateTracker) acquire(ctx context.Context, key string, lock time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lock).Result()
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// The key expired between SetNX and Get. Try once more.
		acquired, err = s.client.SetNX(ctx, fk, StateInProgress.String(), lock).Result()
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}

		return StateError, ErrInvalidState
	}
	if err != nil {
		return StateError, err
	}

	switch State(result) {
	case StateInProgress, StateCompleted, StateFailed:
		return State(result), nil
	default:
		return StateError, ErrInvalidState
	}
}

// Exec runs fn at most once per key. A concurrent call gets ErrInProgress,
// a repeat of a finished call gets ErrCompleted or ErrFailed.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	opt := &execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, o := range opts {
		o(opt)
	}
	if opt.lockDuration <= 0 {
		opt.lockDuration = defaultLockDuration
	}
	if opt.stateTTL <= 0 {
		opt.stateTTL = defaultStateTTL
	}

	state, err := s.acquire(ctx, key, opt.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrInProgress
	case StateCompleted:
		return ErrCompleted
	case StateFailed:
		return ErrFailed
	}

	if err := fn(ctx); err != nil {
		if markErr := s.client.Set(ctx, s.prefix+key, StateFailed.String(), opt.stateTTL).Err(); markErr != nil {
			return markErr
		}

		return err
	}

	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), opt.stateTTL).Err()
}
