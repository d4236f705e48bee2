package ports

import (
	"context"
	"time"

	"github.com/newsnotify/notification-system/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
// Mutating calls target a single document and must be atomic per record.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// SetResetToken stores the hashed reset token and its expiry on the user.
	SetResetToken(ctx context.Context, id, hashedToken string, expires time.Time) error
	// FindByResetToken matches a stored hashed token whose expiry is after now.
	FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (*domain.User, error)
	// UpdatePassword sets a new password hash and clears both reset fields.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	MarkVerified(ctx context.Context, id string) error

	AppendNotificationID(ctx context.Context, userID, notificationID string) error
	RemoveNotificationID(ctx context.Context, userID, notificationID string) error
}
