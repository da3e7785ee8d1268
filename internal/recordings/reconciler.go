package recordings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/laneway/backend/internal/models"
)

// registry is the slice of the recording repository the reconciler uses.
type registry interface {
	MarkCompleted(ctx context.Context, id string, durationMs int64, processedAt time.Time) error
}

// participantStore persists participant session rows.
type participantStore interface {
	Insert(ctx context.Context, p *models.Participant) error
}

// ParticipantInput is one participant entry as reported by the
// extension at completion.
type ParticipantInput struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email,omitempty"`
	JoinTime         int64                  `json:"joinTime"` // epoch milliseconds
	CameraOn         bool                   `json:"cameraOn"`
	AudioMuted       bool                   `json:"audioMuted"`
	CameraOnDuration int64                  `json:"cameraOnDuration"` // milliseconds
	SpeakingEvents   []models.SpeakingEvent `json:"speakingEvents"`
}

// CompletionResult reports the per-participant outcome of one
// completion call. Persisted rows stay committed even when later
// entries in the same batch fail.
type CompletionResult struct {
	Persisted int
	Failed    []string // participant names that could not be persisted
}

// Reconciler finalizes a recording: transitions the registry row to
// completed and fans the raw speaking-event telemetry out into
// aggregate participant session rows.
type Reconciler struct {
	registry     registry
	participants participantStore
	logger       *zap.Logger
}

// NewReconciler creates a completion reconciler.
func NewReconciler(reg registry, parts participantStore, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{registry: reg, participants: parts, logger: logger}
}

// Complete marks the recording completed and persists one session row
// per participant. The status update and the participant inserts each
// commit independently: a mid-batch failure leaves the status updated
// and earlier rows in place, reported in the result rather than rolled
// back or hidden.
func (r *Reconciler) Complete(ctx context.Context, recordingID, meetingID string, durationMs int64, participants []ParticipantInput) (*CompletionResult, error) {
	if err := r.registry.MarkCompleted(ctx, recordingID, durationMs, time.Now()); err != nil {
		return nil, err
	}

	result := &CompletionResult{}
	for _, in := range participants {
		p := &models.Participant{
			ID:               uuid.New(),
			MeetingID:        meetingID,
			EmployeeName:     in.Name,
			EmployeeEmail:    in.Email,
			JoinTime:         time.UnixMilli(in.JoinTime),
			CameraOnDuration: in.CameraOnDuration,
			SpeakingDuration: models.SpeakingDuration(in.SpeakingEvents),
			EngagementScore:  0, // computed by a later pipeline stage, not here
		}
		if err := r.participants.Insert(ctx, p); err != nil {
			r.logger.Error("persist participant failed",
				zap.String("recording_id", recordingID),
				zap.String("participant", in.Name),
				zap.Error(err))
			result.Failed = append(result.Failed, in.Name)
			continue
		}
		result.Persisted++
	}

	r.logger.Info("recording completed",
		zap.String("recording_id", recordingID),
		zap.String("meeting_id", meetingID),
		zap.Int64("duration_ms", durationMs),
		zap.Int("participants", result.Persisted),
		zap.Int("participant_failures", len(result.Failed)))
	return result, nil
}
