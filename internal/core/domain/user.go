package domain

import "time"

// User models a registered account. PasswordHash and the reset-token
// fields never leave the backend; JSON tags exclude them.
type User struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Surname              string    `json:"surname,omitempty"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	IsVerified           bool      `json:"is_verified"`
	PasswordResetToken   string    `json:"-"`
	PasswordResetExpires time.Time `json:"-"`
	NotificationIDs      []string  `json:"notification_ids,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
