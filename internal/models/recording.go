package models

import (
	"fmt"
	"time"
)

// Recording lifecycle statuses. A recording is created as "uploading"
// when the upload URL is issued and moves to "completed" exactly once,
// when the extension reports the upload finished.
const (
	RecordingStatusUploading = "uploading"
	RecordingStatusCompleted = "completed"
)

// Recording is the relational record of one meeting recording. The
// object itself lives in the bucket under StorageKey; the two are
// linked by key convention only, never by a transaction.
type Recording struct {
	ID          string     `json:"id"`
	MeetingID   string     `json:"meeting_id"`
	StorageKey  string     `json:"storage_key"`
	Status      string     `json:"status"`
	Duration    *int64     `json:"duration,omitempty"` // milliseconds, set at completion
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewRecordingID builds the recording identifier the extension expects:
// recording_{meetingId}_{epochSeconds}.
func NewRecordingID(meetingID string, issuedAt time.Time) string {
	return fmt.Sprintf("recording_%s_%d", meetingID, issuedAt.Unix())
}
