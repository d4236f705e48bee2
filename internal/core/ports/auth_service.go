package ports

import "context"

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// AuthService defines the account-lifecycle use cases.
type AuthService interface {
	// Register creates an unverified account and emails a verification link.
	Register(ctx context.Context, input RegisterInput) error
	// Login returns a session token for a verified account.
	Login(ctx context.Context, email, password string) (string, error)
	// RequestPasswordReset emails a reset link. Unknown emails succeed
	// silently so callers cannot enumerate accounts.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword consumes a reset token and sets a new password.
	ResetPassword(ctx context.Context, token, newPassword string) error
	// VerifyEmail consumes an action token, marks the account verified and
	// returns a fresh session token for immediate login.
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) error
}
