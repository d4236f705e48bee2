package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsnotify/notification-system/internal/core/domain"
	"github.com/newsnotify/notification-system/internal/core/ports"
)

// NotificationService implements ownership-scoped CRUD over notification
// requests. Only the creator of a record may read, update or delete it.
type NotificationService struct {
	notifications ports.NotificationRepository
	users         ports.UserRepository
	mailer        ports.Mailer
	log           zerolog.Logger
}

func NewNotificationService(
	notifications ports.NotificationRepository,
	users ports.UserRepository,
	mailer ports.Mailer,
	log zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		log:           log,
	}
}

// Create validates and persists a new notification owned by creatorID,
// appends its id to the owner's list, and best-effort emails the receivers.
// Neither the owner-list append nor email delivery can fail the create.
func (s *NotificationService) Create(ctx context.Context, creatorID string, in ports.CreateNotificationInput) (*domain.Notification, error) {
	owner, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	now := time.Now().UTC()
	n := &domain.Notification{
		Creator:        creatorID,
		Receivers:      in.Receivers,
		SearchQuery:    in.SearchQuery,
		RelevancyScore: in.RelevancyScore,
		Frequency:      domain.Frequency(in.Frequency),
		Days:           in.Days,
		Time:           in.Time,
		Timezone:       in.Timezone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if n.Timezone == "" {
		n.Timezone = "UTC"
	}
	if n.Frequency != domain.FrequencyWeekly {
		n.Days = nil
	}

	if err := validateNotification(n); err != nil {
		return nil, err
	}

	created, err := s.notifications.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	// The owner's denormalized id list is advisory; a failed append leaves an
	// orphan id at worst, never a lost notification (List queries by creator).
	if err := s.users.AppendNotificationID(ctx, creatorID, created.ID); err != nil {
		s.log.Warn().Err(err).
			Str("user_id", creatorID).
			Str("notification_id", created.ID).
			Msg("failed to append notification id to owner")
	}

	body := fmt.Sprintf(
		"Hello!\n\nThis is %s. You've requested notifications about %q.\nWith Frequency: %s, Timezone: %s.\nHave a great day,\n\n%s",
		owner.Name, created.SearchQuery, created.Frequency, created.Timezone, owner.Name,
	)
	if err := s.mailer.Send(ctx, created.Receivers, "Your Personalized Notification", body); err != nil {
		s.log.Error().Err(err).Str("notification_id", created.ID).Msg("receiver email failed")
	}

	s.log.Info().
		Str("notification_id", created.ID).
		Str("user_id", creatorID).
		Str("frequency", string(created.Frequency)).
		Msg("notification created")

	return created, nil
}

// List returns every notification owned by creatorID. An owner with no
// notifications gets an empty slice, not an error.
func (s *NotificationService) List(ctx context.Context, creatorID string) ([]domain.Notification, error) {
	items, err := s.notifications.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

// Update applies a partial update to an owned notification. Fields left nil
// in the input keep their stored values; the merged record is re-validated
// so no update can break an invariant that held at create time.
func (s *NotificationService) Update(ctx context.Context, creatorID, notificationID string, in ports.UpdateNotificationInput) (*domain.Notification, error) {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.Creator != creatorID {
		return nil, domain.ErrForbidden
	}

	if in.Receivers != nil {
		n.Receivers = *in.Receivers
	}
	if in.SearchQuery != nil {
		n.SearchQuery = *in.SearchQuery
	}
	if in.RelevancyScore != nil {
		n.RelevancyScore = *in.RelevancyScore
	}
	if in.Frequency != nil {
		n.Frequency = domain.Frequency(*in.Frequency)
	}
	if in.Days != nil {
		n.Days = *in.Days
	}
	if in.Time != nil {
		n.Time = *in.Time
	}
	if in.Timezone != nil {
		n.Timezone = *in.Timezone
	}
	if n.Frequency != domain.FrequencyWeekly {
		n.Days = nil
	}
	n.UpdatedAt = time.Now().UTC()

	if err := validateNotification(n); err != nil {
		return nil, err
	}

	updated, err := s.notifications.Update(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}

	s.log.Info().Str("notification_id", updated.ID).Str("user_id", creatorID).Msg("notification updated")
	return updated, nil
}

// Delete removes an owned notification and detaches its id from the owner's
// list. The detach is best-effort for the same reason the append is.
func (s *NotificationService) Delete(ctx context.Context, creatorID, notificationID string) error {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.Creator != creatorID {
		return domain.ErrForbidden
	}

	if err := s.notifications.Delete(ctx, notificationID); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	if err := s.users.RemoveNotificationID(ctx, creatorID, notificationID); err != nil {
		s.log.Warn().Err(err).
			Str("user_id", creatorID).
			Str("notification_id", notificationID).
			Msg("failed to remove notification id from owner")
	}

	s.log.Info().Str("notification_id", notificationID).Str("user_id", creatorID).Msg("notification deleted")
	return nil
}

// validateNotification enforces the record invariants shared by create and
// update: non-empty valid receivers, score in [1,5], a known frequency,
// days present iff Weekly, and a parsable HH:MM time of day.
func validateNotification(n *domain.Notification) error {
	if len(n.Receivers) == 0 {
		return domain.NewValidationError("receivers", "at least one receiver is required")
	}
	for _, r := range n.Receivers {
		if _, err := mail.ParseAddress(r); err != nil {
			return domain.NewValidationError("receivers", fmt.Sprintf("%q is not a valid email", r))
		}
	}
	if n.SearchQuery == "" {
		return domain.NewValidationError("search_query", "is required")
	}
	if n.RelevancyScore < 1 || n.RelevancyScore > 5 {
		return domain.NewValidationError("relevancy_score", "must be between 1 and 5")
	}
	if !n.Frequency.IsValid() {
		return domain.NewValidationError("frequency", "must be one of Daily, Weekly, Monthly")
	}
	if n.Frequency == domain.FrequencyWeekly {
		if len(n.Days) == 0 {
			return domain.NewValidationError("days", "at least one day is required for Weekly frequency")
		}
		for _, d := range n.Days {
			if !domain.IsWeekday(d) {
				return domain.NewValidationError("days", fmt.Sprintf("%q is not a weekday name", d))
			}
		}
	}
	if _, err := time.Parse("15:04", n.Time); err != nil {
		return domain.NewValidationError("time", "must be in HH:MM format")
	}
	return nil
}
