// Package mail renders account emails and moves them to the SMTP server
// through a Redis-backed outbox.
package mail

import "context"

// Message is a rendered email ready for delivery.
type Message struct {
	FromName string `json:"from_name,omitempty"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Outbox accepts messages for later delivery.
type Outbox interface {
	Enqueue(ctx context.Context, msg Message) error
}
