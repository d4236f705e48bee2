package ports

import "context"

// Mailer sends transactional email. Implementations live in
// internal/infrastructure; services treat delivery failure as a dependency
// error and decide per call site whether it is fatal.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// RateLimiter gates repeatable actions (resend verification, password reset
// requests) by an opaque key such as the target email address.
type RateLimiter interface {
	// Allow reports whether the action identified by key may proceed.
	Allow(ctx context.Context, key string) (bool, error)
}

// TokenIssuer signs and verifies bearer tokens carrying a subject id.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
	// Verify returns the subject id, or token.ErrExpired / token.ErrInvalid.
	Verify(token string) (string, error)
}
