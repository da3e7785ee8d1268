package recordings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laneway/backend/internal/models"
)

// Repository handles recording persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a recordings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUploadRecord inserts a recording row in the "uploading" state.
// Called once per issued upload URL, after the storage key has been
// determined (presigned or local fallback; the registry does not care
// which).
func (r *Repository) CreateUploadRecord(ctx context.Context, id, meetingID, storageKey string) error {
	const q = `INSERT INTO meeting_recordings (id, meeting_id, storage_key, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())`
	_, err := r.pool.Exec(ctx, q, id, meetingID, storageKey, models.RecordingStatusUploading)
	return err
}

// MarkCompleted transitions a recording to its terminal state, setting
// duration and processed_at. Calling it again overwrites the same
// fields, so repeated completion calls are harmless.
func (r *Repository) MarkCompleted(ctx context.Context, id string, durationMs int64, processedAt time.Time) error {
	const q = `UPDATE meeting_recordings SET status = $1, duration = $2, processed_at = $3 WHERE id = $4`
	_, err := r.pool.Exec(ctx, q, models.RecordingStatusCompleted, durationMs, processedAt, id)
	return err
}

// GetByID returns a recording, or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Recording, error) {
	const q = `SELECT id, meeting_id, storage_key, status, duration, processed_at, created_at
		FROM meeting_recordings WHERE id = $1`
	var rec models.Recording
	err := r.pool.QueryRow(ctx, q, id).Scan(&rec.ID, &rec.MeetingID, &rec.StorageKey,
		&rec.Status, &rec.Duration, &rec.ProcessedAt, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListByMeeting returns all recordings for a meeting, newest first.
func (r *Repository) ListByMeeting(ctx context.Context, meetingID string) ([]models.Recording, error) {
	const q = `SELECT id, meeting_id, storage_key, status, duration, processed_at, created_at
		FROM meeting_recordings WHERE meeting_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Recording
	for rows.Next() {
		var rec models.Recording
		if err := rows.Scan(&rec.ID, &rec.MeetingID, &rec.StorageKey,
			&rec.Status, &rec.Duration, &rec.ProcessedAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
