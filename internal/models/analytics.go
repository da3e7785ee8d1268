package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalyticsSnapshot is one raw telemetry payload from the extension,
// stored as-is for later aggregation.
type AnalyticsSnapshot struct {
	ID        uuid.UUID       `json:"id"`
	MeetingID string          `json:"meeting_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// UserStats is the weekly summary shown in the extension popup.
type UserStats struct {
	MeetingsThisWeek int `json:"meetingsThisWeek"`
	AvgSpeakingTime  int `json:"avgSpeakingTime"` // minutes
	CameraUsageRate  int `json:"cameraUsageRate"` // percent
}
