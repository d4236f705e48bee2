package handler

import "github.com/newsnotify/notification-system/internal/core/domain"

type createNotificationRequest struct {
	Receivers      []string `json:"receivers"       validate:"required,min=1,dive,email"`
	SearchQuery    string   `json:"search_query"    validate:"required"`
	RelevancyScore int      `json:"relevancy_score" validate:"required,min=1,max=5"`
	Frequency      string   `json:"frequency"       validate:"required,oneof=Daily Weekly Monthly"`
	Days           []string `json:"days"            validate:"omitempty,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Time           string   `json:"time"            validate:"required"`
	Timezone       string   `json:"timezone"`
}

// updateNotificationRequest is a partial update: absent fields keep their
// stored values, which is why every field is a pointer.
type updateNotificationRequest struct {
	Receivers      *[]string `json:"receivers"       validate:"omitempty,min=1,dive,email"`
	SearchQuery    *string   `json:"search_query"    validate:"omitempty,min=1"`
	RelevancyScore *int      `json:"relevancy_score" validate:"omitempty,min=1,max=5"`
	Frequency      *string   `json:"frequency"       validate:"omitempty,oneof=Daily Weekly Monthly"`
	Days           *[]string `json:"days"            validate:"omitempty,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Time           *string   `json:"time"            validate:"omitempty"`
	Timezone       *string   `json:"timezone"        validate:"omitempty"`
}

type notificationResponse struct {
	Message      string               `json:"message"`
	Notification *domain.Notification `json:"notification"`
}
