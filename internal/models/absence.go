package models

import (
	"time"

	"github.com/google/uuid"
)

// Absence is an advance absence notification for a meeting, shown to
// the remaining participants by the extension when the meeting starts.
type Absence struct {
	ID               uuid.UUID `json:"id"`
	MeetingID        string    `json:"meeting_id"`
	EmployeeID       string    `json:"employee_id"`
	EmployeeName     string    `json:"employee_name"`
	EmployeeEmail    string    `json:"employee_email,omitempty"`
	Department       string    `json:"department,omitempty"`
	Reason           string    `json:"reason"`
	AbsenceType      string    `json:"absence_type"`
	ExpectedDuration string    `json:"expected_duration"`
	InformedAt       time.Time `json:"informed_at"`
	ShownInMeeting   bool      `json:"shown_in_meeting"`
}
