package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laneway/backend/internal/models"
)

// Repository stores raw telemetry snapshots and computes per-user
// aggregates over the participant rows written at completion.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an analytics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertSnapshot stores one raw telemetry payload.
func (r *Repository) InsertSnapshot(ctx context.Context, s *models.AnalyticsSnapshot) error {
	const q = `INSERT INTO meeting_analytics (id, meeting_id, timestamp, data) VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, q, s.ID, s.MeetingID, s.Timestamp, s.Data)
	return err
}

// UserStats aggregates a user's participant sessions since the given
// time: distinct meetings, average speaking minutes and average
// camera-on share of the recording duration.
func (r *Repository) UserStats(ctx context.Context, email string, since time.Time) (*models.UserStats, error) {
	var meetings int
	const meetingsQ = `SELECT COUNT(DISTINCT meeting_id) FROM meeting_participants
		WHERE employee_email = $1 AND join_time > $2`
	if err := r.pool.QueryRow(ctx, meetingsQ, email, since).Scan(&meetings); err != nil {
		return nil, err
	}

	var avgSpeakingMs float64
	const speakingQ = `SELECT COALESCE(AVG(speaking_duration), 0) FROM meeting_participants
		WHERE employee_email = $1 AND join_time > $2`
	if err := r.pool.QueryRow(ctx, speakingQ, email, since).Scan(&avgSpeakingMs); err != nil {
		return nil, err
	}

	// Camera usage: camera-on time relative to the completed recording's
	// duration for the same meeting.
	var cameraRate float64
	const cameraQ = `SELECT COALESCE(AVG(p.camera_on_duration::float / NULLIF(r.duration, 0)), 0)
		FROM meeting_participants p
		JOIN meeting_recordings r ON r.meeting_id = p.meeting_id AND r.status = 'completed'
		WHERE p.employee_email = $1 AND p.join_time > $2 AND r.duration IS NOT NULL`
	if err := r.pool.QueryRow(ctx, cameraQ, email, since).Scan(&cameraRate); err != nil {
		return nil, err
	}

	return &models.UserStats{
		MeetingsThisWeek: meetings,
		AvgSpeakingTime:  int(avgSpeakingMs / 60000),
		CameraUsageRate:  int(cameraRate * 100),
	}, nil
}
