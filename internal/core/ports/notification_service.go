package ports

import (
	"context"

	"github.com/newsnotify/notification-system/internal/core/domain"
)

// CreateNotificationInput carries all data needed to create a notification.
type CreateNotificationInput struct {
	Receivers      []string
	SearchQuery    string
	RelevancyScore int
	Frequency      string
	Days           []string
	Time           string
	Timezone       string
}

// UpdateNotificationInput is a partial update: nil fields are left unchanged.
type UpdateNotificationInput struct {
	Receivers      *[]string
	SearchQuery    *string
	RelevancyScore *int
	Frequency      *string
	Days           *[]string
	Time           *string
	Timezone       *string
}

// NotificationService defines ownership-scoped CRUD over notifications.
type NotificationService interface {
	Create(ctx context.Context, creatorID string, input CreateNotificationInput) (*domain.Notification, error)
	List(ctx context.Context, creatorID string) ([]domain.Notification, error)
	Update(ctx context.Context, creatorID, notificationID string, input UpdateNotificationInput) (*domain.Notification, error)
	Delete(ctx context.Context, creatorID, notificationID string) error
}
