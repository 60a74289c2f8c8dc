// Package notify delivers parent-facing email from the portal. The
// Mailer interface is the only thing services depend on; the sendgrid
// implementation is wired in production and the console one everywhere
// else.
package notify

import "context"

// CodeItem pairs a student with the access code a recipient should use
// for that student. A single message may carry several items.
type CodeItem struct {
	StudentName string
	Code        string
}

// Mailer sends portal notifications. Implementations must be safe for
// concurrent use.
type Mailer interface {
	// SendParentCodes delivers one message to a single recipient
	// listing the access codes for each named student.
	SendParentCodes(ctx context.Context, to string, items []CodeItem) error

	// SendWelcome delivers the account-created message with the
	// temporary password issued during signup.
	SendWelcome(ctx context.Context, to, name, tempPassword string) error
}
