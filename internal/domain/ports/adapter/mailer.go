package adapter

import "context"

// Mailer sends transactional email through the configured provider.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}
