// Package mail keeps the rest of the service independent from a concrete
// e-mail provider. Callers build a Message and hand it to a Mail; SMTP is the
// only delivery mechanism this deployment ships.
package mail

import (
	"context"
	"io"
)

// Message is a provider-agnostic e-mail payload.
type Message struct {
	// From overrides the configured default sender when set.
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	// TextBody is the plain-text part; when HTMLBody is also set the two are
	// sent as multipart/alternative.
	TextBody string
	HTMLBody string
}

// Mail delivers messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
