// Package mail implements the transactional email collaborator that
// delivers baked badges to recipients.
package mail

import "context"

// Message is a single outbound email with one attachment.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Mailer delivers messages. Implementations own their own timeout policy;
// the issuance pipeline treats any error as fatal for the current request.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
