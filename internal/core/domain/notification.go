package domain

import "time"

// Frequency is the cadence on which a notification is meant to fire.
type Frequency string

const (
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// IsValid reports whether f is one of the known cadences.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// weekdays is the set of accepted day names for Weekly notifications.
var weekdays = map[string]struct{}{
	"Monday":    {},
	"Tuesday":   {},
	"Wednesday": {},
	"Thursday":  {},
	"Friday":    {},
	"Saturday":  {},
	"Sunday":    {},
}

// IsWeekday reports whether name is a valid English weekday name.
func IsWeekday(name string) bool {
	_, ok := weekdays[name]
	return ok
}

// Notification is a stored request to periodically email search-relevant
// content to a set of receivers. The creator reference is immutable; only
// the creator may read, update or delete the record.
type Notification struct {
	ID             string    `json:"id"`
	Creator        string    `json:"creator"`
	Receivers      []string  `json:"receivers"`
	SearchQuery    string    `json:"search_query"`
	RelevancyScore int       `json:"relevancy_score"`
	Frequency      Frequency `json:"frequency"`
	Days           []string  `json:"days,omitempty"`
	Time           string    `json:"time"`
	Timezone       string    `json:"timezone"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
