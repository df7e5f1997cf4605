package pgxcasbin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// updateMethod identifies the kind of policy change carried by a message.
type updateMethod string

const (
	methodReload         updateMethod = "reload"
	methodAddPolicy      updateMethod = "add_policy"
	methodRemovePolicy   updateMethod = "remove_policy"
	methodRemoveFiltered updateMethod = "remove_filtered"
)

const defaultChannel = "portal_casbin_changes"

// updateMessage is the pg_notify payload exchanged between instances.
type updateMessage struct {
	Method      updateMethod `json:"method"`
	SenderID    string       `json:"sender_id"`
	Sec         string       `json:"sec,omitempty"`
	Ptype       string       `json:"ptype,omitempty"`
	Rules       [][]string   `json:"rules,omitempty"`
	FieldIndex  int          `json:"field_index,omitempty"`
	FieldValues []string     `json:"field_values,omitempty"`
}

// WatcherOption configures a Watcher.
type WatcherOption struct {
	// Channel is the Postgres listen channel, defaulted when empty.
	Channel string
	// LocalID identifies this instance, defaulted to a random UUID.
	LocalID string
	// NotifySelf also delivers messages this instance published.
	NotifySelf bool
}

// Watcher propagates policy changes between portal instances over Postgres
// LISTEN/NOTIFY.
type Watcher struct {
	mu       sync.RWMutex
	opt      WatcherOption
	pool     *pgxpool.Pool
	callback func(string)
	cancel   context.CancelFunc
}

// NewWatcher starts a watcher listening on the shared pgx pool. The listener
// reconnects with fibonacci backoff until ctx is canceled or Close is called.
func NewWatcher(ctx context.Context, pool *pgxpool.Pool, opt WatcherOption) (*Watcher, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, errors.Join(ErrPing, err)
	}

	if opt.Channel == "" {
		opt.Channel = defaultChannel
	}
	if opt.LocalID == "" {
		opt.LocalID = uuid.NewString()
	}

	listenCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{opt: opt, pool: pool, cancel: cancel}

	go w.run(listenCtx)

	return w, nil
}

func (w *Watcher) run(ctx context.Context) {
	backoff := retry.WithCappedDuration(5*time.Second, retry.NewFibonacci(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := w.listen(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			slog.Error("casbin watcher listen failed", "channel", w.opt.Channel, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("casbin watcher stopped", "channel", w.opt.Channel, "error", err)
		return
	}
	slog.Info("casbin watcher closed", "channel", w.opt.Channel)
}

func (w *Watcher) listen(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, fmt.Sprintf("listen %s", w.opt.Channel)); err != nil {
		return errors.Join(ErrListen, err)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			return errors.Join(ErrWaitNotification, err)
		}

		var msg updateMessage
		if err := json.Unmarshal([]byte(notification.Payload), &msg); err != nil {
			slog.Error("casbin watcher bad payload", "payload", notification.Payload, "error", err)
			continue
		}

		w.mu.RLock()
		cb := w.callback
		w.mu.RUnlock()

		if msg.SenderID == w.opt.LocalID && !w.opt.NotifySelf {
			continue
		}
		if cb == nil {
			slog.Warn("casbin watcher callback not set, skipping update")
			continue
		}
		cb(notification.Payload)
	}
}

// SetUpdateCallback registers the handler invoked for incoming messages.
func (w *Watcher) SetUpdateCallback(callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callback = callback
	return nil
}

// Update asks other instances to reload the full policy set.
func (w *Watcher) Update() error {
	return w.notify(updateMessage{Method: methodReload, SenderID: w.opt.LocalID})
}

// UpdateForSavePolicy asks other instances to reload after a full save.
func (w *Watcher) UpdateForSavePolicy(model.Model) error {
	return w.Update()
}

// UpdateForAddPolicy announces a single added rule.
func (w *Watcher) UpdateForAddPolicy(sec, ptype string, params ...string) error {
	return w.notify(updateMessage{
		Method:   methodAddPolicy,
		SenderID: w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		Rules:    [][]string{params},
	})
}

// UpdateForRemovePolicy announces a single removed rule.
func (w *Watcher) UpdateForRemovePolicy(sec, ptype string, params ...string) error {
	return w.notify(updateMessage{
		Method:   methodRemovePolicy,
		SenderID: w.opt.LocalID,
		Sec:      sec,
		Ptype:    ptype,
		Rules:    [][]string{params},
	})
}

// UpdateForRemoveFilteredPolicy announces a filtered removal.
func (w *Watcher) UpdateForRemoveFilteredPolicy(sec, ptype string, fieldIndex int, fieldValues ...string) error {
	return w.notify(updateMessage{
		Method:      methodRemoveFiltered,
		SenderID:    w.opt.LocalID,
		Sec:         sec,
		Ptype:       ptype,
		FieldIndex:  fieldIndex,
		FieldValues: fieldValues,
	})
}

// Close stops the listener goroutine. The pool stays open, it is owned by
// the caller.
func (w *Watcher) Close() {
	w.cancel()
}

func (w *Watcher) notify(msg updateMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Join(ErrNotify, err)
	}

	query := fmt.Sprintf("select pg_notify('%s', $1)", w.opt.Channel)
	if _, err := w.pool.Exec(context.Background(), query, string(payload)); err != nil {
		return errors.Join(ErrNotify, err)
	}
	return nil
}

// EnforcerCallback returns a watcher callback applying incoming changes to
// the enforcer, falling back to a full reload for unknown methods.
func EnforcerCallback(e casbin.IEnforcer) func(string) {
	return func(payload string) {
		var msg updateMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			slog.Error("casbin callback bad payload", "payload", payload, "error", err)
			return
		}

		var err error
		switch msg.Method {
		case methodReload:
			err = e.LoadPolicy()
		case methodAddPolicy:
			if len(msg.Rules) == 0 {
				return
			}
			_, err = e.SelfAddPolicy(msg.Sec, msg.Ptype, msg.Rules[0])
		case methodRemovePolicy:
			if len(msg.Rules) == 0 {
				return
			}
			_, err = e.SelfRemovePolicy(msg.Sec, msg.Ptype, msg.Rules[0])
		case methodRemoveFiltered:
			_, err = e.SelfRemoveFilteredPolicy(msg.Sec, msg.Ptype, msg.FieldIndex, msg.FieldValues...)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownUpdate, msg.Method)
		}
		if err != nil {
			slog.Error("casbin callback apply failed", "method", msg.Method, "error", err)
		}
	}
}
