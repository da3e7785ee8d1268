package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpeakingDuration(t *testing.T) {
	tests := []struct {
		name   string
		events []SpeakingEvent
		want   int64
	}{
		{"nil events", nil, 0},
		{"no speaking events", []SpeakingEvent{{Type: "muted", Duration: 5000}}, 0},
		{
			"mixed events",
			[]SpeakingEvent{
				{Type: "speaking", Duration: 30000},
				{Type: "muted", Duration: 5000},
				{Type: "speaking", Duration: 10000},
			},
			40000,
		},
		{
			"overlapping events are not merged",
			[]SpeakingEvent{
				{Type: "speaking", Duration: 10000},
				{Type: "speaking", Duration: 10000},
			},
			20000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SpeakingDuration(tt.events))
		})
	}
}

func TestNewRecordingID(t *testing.T) {
	issuedAt := time.Unix(1717230000, 0)
	require.Equal(t, "recording_m1_1717230000", NewRecordingID("m1", issuedAt))
}
