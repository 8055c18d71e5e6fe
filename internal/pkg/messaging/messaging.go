// Package messaging is a broker-agnostic publish/consume API. Business code
// depends on the interfaces here; the NATS and NSQ drivers in this package
// are selected by configuration through NewFromDriver.
package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when the selected broker cannot perform an
// operation, such as delayed delivery on NATS core.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging can both publish and consume.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher sends messages to a destination (topic or subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer receives messages from a source until the context is canceled.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. With auto-ack enabled the driver
// acks on nil and nacks on error unless the handler already responded.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a broker-agnostic payload to publish.
type OutgoingMessage struct {
	Body    []byte
	Headers []Header

	// Delay defers delivery on brokers that support it (NSQ).
	Delay time.Duration
}

// Header is one message header pair; duplicate keys are allowed.
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
	Headers() []Header
	// Attributes flattens headers to single values for convenience lookups.
	Attributes() map[string]string

	// ID is the broker message ID, empty when the broker has none.
	ID() string
	// Topic is set for topic-based brokers (NSQ).
	Topic() string
	// Subject is set for subject-based brokers (NATS).
	Subject() string
	Timestamp() time.Time

	// Ack acknowledges successful processing. Acking twice is a no-op.
	Ack(ctx context.Context) error
}

// Nackable messages can request redelivery.
type Nackable interface {
	Nack(ctx context.Context) error
}

// Extendable messages can push out their processing deadline.
type Extendable interface {
	Extend(ctx context.Context, d time.Duration) error
}
