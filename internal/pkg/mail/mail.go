// Package mail sends transactional email for the portal.
package mail

import "context"

// Message is one outgoing email. HTML and Text may both be set, in which case
// the mail is sent as multipart/alternative.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer is implemented by email transports.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
