package recordings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laneway/backend/internal/models"
)

// ParticipantRepository handles participant session persistence.
// Rows are written once, at completion reconciliation, and read by the
// analytics endpoints.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository creates a participant repository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// Insert persists one participant session row. Each insert commits
// independently; there is no surrounding transaction across a batch.
func (r *ParticipantRepository) Insert(ctx context.Context, p *models.Participant) error {
	const q = `INSERT INTO meeting_participants
		(id, meeting_id, employee_name, employee_email, join_time, camera_on_duration, speaking_duration, engagement_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, q, p.ID, p.MeetingID, p.EmployeeName, p.EmployeeEmail,
		p.JoinTime, p.CameraOnDuration, p.SpeakingDuration, p.EngagementScore)
	return err
}

// ListByMeeting returns participant sessions for a meeting.
func (r *ParticipantRepository) ListByMeeting(ctx context.Context, meetingID string) ([]models.Participant, error) {
	const q = `SELECT id, meeting_id, employee_name, COALESCE(employee_email,''), join_time,
		camera_on_duration, speaking_duration, engagement_score
		FROM meeting_participants WHERE meeting_id = $1 ORDER BY join_time`
	rows, err := r.pool.Query(ctx, q, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.MeetingID, &p.EmployeeName, &p.EmployeeEmail,
			&p.JoinTime, &p.CameraOnDuration, &p.SpeakingDuration, &p.EngagementScore); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
