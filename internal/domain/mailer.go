package domain

import "context"

// Mailer delivers transactional mail. Delivery is fire-and-forget from the
// core's perspective: a send failure never rolls back the state change that
// prompted the mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
