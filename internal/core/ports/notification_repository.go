package ports

import (
	"context"

	"github.com/newsnotify/notification-system/internal/core/domain"
)

// NotificationRepository defines the persistence interface for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	FindByCreator(ctx context.Context, creatorID string) ([]domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	Delete(ctx context.Context, id string) error
}
