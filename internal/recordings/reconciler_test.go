package recordings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laneway/backend/internal/models"
)

type fakeRegistry struct {
	completedID string
	durationMs  int64
	processedAt time.Time
	err         error
}

func (f *fakeRegistry) MarkCompleted(ctx context.Context, id string, durationMs int64, processedAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.completedID = id
	f.durationMs = durationMs
	f.processedAt = processedAt
	return nil
}

type fakeParticipantStore struct {
	rows      []*models.Participant
	failNames map[string]bool
}

func (f *fakeParticipantStore) Insert(ctx context.Context, p *models.Participant) error {
	if f.failNames[p.EmployeeName] {
		return errors.New("insert failed")
	}
	f.rows = append(f.rows, p)
	return nil
}

func TestCompletePersistsParticipants(t *testing.T) {
	reg := &fakeRegistry{}
	store := &fakeParticipantStore{}
	rec := NewReconciler(reg, store, nil)

	joinTime := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	result, err := rec.Complete(context.Background(), "recording_m1_1717230000", "m1", 120000, []ParticipantInput{
		{
			ID:               "p1",
			Name:             "Alice Example",
			Email:            "alice@example.com",
			JoinTime:         joinTime.UnixMilli(),
			CameraOnDuration: 90000,
			SpeakingEvents: []models.SpeakingEvent{
				{Type: "speaking", Duration: 30000},
				{Type: "muted", Duration: 5000},
				{Type: "speaking", Duration: 15000},
			},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Persisted)
	require.Empty(t, result.Failed)

	require.Equal(t, "recording_m1_1717230000", reg.completedID)
	require.Equal(t, int64(120000), reg.durationMs)
	require.False(t, reg.processedAt.IsZero())

	require.Len(t, store.rows, 1)
	p := store.rows[0]
	require.NotEqual(t, "", p.ID.String())
	require.Equal(t, "m1", p.MeetingID)
	require.Equal(t, "Alice Example", p.EmployeeName)
	require.Equal(t, "alice@example.com", p.EmployeeEmail)
	require.True(t, p.JoinTime.Equal(joinTime))
	require.Equal(t, int64(90000), p.CameraOnDuration)
	require.Equal(t, int64(45000), p.SpeakingDuration)
	require.Zero(t, p.EngagementScore)
}

func TestCompletePartialParticipantFailure(t *testing.T) {
	reg := &fakeRegistry{}
	store := &fakeParticipantStore{failNames: map[string]bool{"Bob": true}}
	rec := NewReconciler(reg, store, nil)

	result, err := rec.Complete(context.Background(), "recording_m1_1", "m1", 60000, []ParticipantInput{
		{Name: "Alice", JoinTime: 1},
		{Name: "Bob", JoinTime: 2},
		{Name: "Carol", JoinTime: 3},
	})
	require.NoError(t, err)

	// Status update and the other rows stay in place; the failure is
	// reported, not rolled back.
	require.Equal(t, "recording_m1_1", reg.completedID)
	require.Equal(t, 2, result.Persisted)
	require.Equal(t, []string{"Bob"}, result.Failed)
	require.Len(t, store.rows, 2)
}

func TestCompleteRegistryFailureAborts(t *testing.T) {
	reg := &fakeRegistry{err: errors.New("db down")}
	store := &fakeParticipantStore{}
	rec := NewReconciler(reg, store, nil)

	result, err := rec.Complete(context.Background(), "recording_m1_1", "m1", 60000, []ParticipantInput{
		{Name: "Alice"},
	})
	require.Error(t, err)
	require.Nil(t, result)
	require.Empty(t, store.rows)
}
