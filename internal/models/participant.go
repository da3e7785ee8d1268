package models

import (
	"time"

	"github.com/google/uuid"
)

// SpeakingEventType values the extension reports. Only "speaking"
// events contribute to the aggregate speaking duration.
const SpeakingEventType = "speaking"

// SpeakingEvent is one discrete audio-activity interval reported by the
// extension for a participant.
type SpeakingEvent struct {
	Type     string `json:"type"`
	Duration int64  `json:"duration"` // milliseconds
}

// Participant is one per-meeting participant session row, written once
// at completion reconciliation and immutable afterwards.
type Participant struct {
	ID               uuid.UUID `json:"id"`
	MeetingID        string    `json:"meeting_id"`
	EmployeeName     string    `json:"employee_name"`
	EmployeeEmail    string    `json:"employee_email,omitempty"`
	JoinTime         time.Time `json:"join_time"`
	CameraOnDuration int64     `json:"camera_on_duration"` // milliseconds
	SpeakingDuration int64     `json:"speaking_duration"`  // milliseconds, sum of speaking events
	EngagementScore  float64   `json:"engagement_score"`   // placeholder, always 0 for now
}

// SpeakingDuration sums the durations of events tagged "speaking".
// Plain filter-then-sum: overlapping or out-of-order events are not
// merged or deduplicated.
func SpeakingDuration(events []SpeakingEvent) int64 {
	var total int64
	for _, e := range events {
		if e.Type == SpeakingEventType {
			total += e.Duration
		}
	}
	return total
}
