// Package messaging is a broker-agnostic publish/consume layer. It wraps
// Kafka, NATS, NSQ, and Google Pub/Sub behind one interface so modules pick
// the broker by configuration.
package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when the selected broker cannot do an operation,
// such as deferred delivery.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging publishes to and consumes from a broker.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

// Publisher sends messages to a destination (topic, subject, or queue).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer reads messages from a source until the context ends.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. With auto-ack enabled, a nil return
// acks the message and an error nacks it, unless the handler already responded.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a broker-agnostic message to publish.
type OutgoingMessage struct {
	Body []byte

	// Key is used by Kafka for partitioning.
	Key []byte

	Headers []Header

	// Attributes map to Pub/Sub string attributes.
	Attributes map[string]string

	// OrderingKey is used by Pub/Sub.
	OrderingKey string

	// Delay defers delivery where the broker supports it (NSQ).
	Delay time.Duration
}

// Header is one message header. Duplicate keys are allowed.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries broker-assigned publish metadata.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Key() []byte
	Headers() []Header
	Attributes() map[string]string

	ID() string
	Topic() string
	Timestamp() time.Time

	// Ack marks the message as processed.
	Ack(ctx context.Context) error
	// Nack requests redelivery.
	Nack(ctx context.Context) error
}
