package domain

import "time"

// ActivityLevel classifies an activity feed entry.
type ActivityLevel string

const (
	ActivityInfo    ActivityLevel = "info"
	ActivitySuccess ActivityLevel = "success"
	ActivityError   ActivityLevel = "error"
)

// ActivityEntry is one line of the message-ingestion feed.
type ActivityEntry struct {
	Message string        `json:"message"`
	Level   ActivityLevel `json:"level"`
	Time    time.Time     `json:"time"`
}
