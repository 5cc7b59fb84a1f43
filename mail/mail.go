// Package mail delivers rendered messages through a configurable transport.
package mail

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers one message. Callers treat delivery as fire-and-forget
// and do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
