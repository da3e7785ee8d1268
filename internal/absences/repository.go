package absences

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laneway/backend/internal/models"
)

// Repository handles absence notification persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an absences repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores one absence notification.
func (r *Repository) Insert(ctx context.Context, a *models.Absence) error {
	const q = `INSERT INTO meeting_absences
		(id, meeting_id, employee_id, employee_name, employee_email, department,
		 reason, absence_type, expected_duration, informed_at, shown_in_meeting)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)`
	_, err := r.pool.Exec(ctx, q, a.ID, a.MeetingID, a.EmployeeID, a.EmployeeName,
		a.EmployeeEmail, a.Department, a.Reason, a.AbsenceType, a.ExpectedDuration, a.InformedAt)
	return err
}

// ListPendingByMeeting returns absences for a meeting that have not yet
// been shown in-meeting.
func (r *Repository) ListPendingByMeeting(ctx context.Context, meetingID string) ([]models.Absence, error) {
	const q = `SELECT id, meeting_id, employee_id, employee_name, COALESCE(employee_email,''),
		COALESCE(department,''), reason, absence_type, expected_duration, informed_at, shown_in_meeting
		FROM meeting_absences WHERE meeting_id = $1 AND shown_in_meeting = false
		ORDER BY informed_at`
	rows, err := r.pool.Query(ctx, q, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Absence
	for rows.Next() {
		var a models.Absence
		if err := rows.Scan(&a.ID, &a.MeetingID, &a.EmployeeID, &a.EmployeeName, &a.EmployeeEmail,
			&a.Department, &a.Reason, &a.AbsenceType, &a.ExpectedDuration, &a.InformedAt, &a.ShownInMeeting); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// MarkShown flags all of a meeting's absences as displayed.
func (r *Repository) MarkShown(ctx context.Context, meetingID string) error {
	const q = `UPDATE meeting_absences SET shown_in_meeting = true WHERE meeting_id = $1`
	_, err := r.pool.Exec(ctx, q, meetingID)
	return err
}
