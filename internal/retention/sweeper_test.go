package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laneway/backend/pkg/storage"
)

type fakeStore struct {
	objects  []storage.ObjectInfo
	listErr  error
	failKeys map[string]bool
	deleted  []string
	calls    []string
}

func (f *fakeStore) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	f.calls = append(f.calls, key)
	if f.failKeys[key] {
		return errors.New("delete failed")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestSweeper(store *fakeStore, now time.Time) *Sweeper {
	s := NewSweeper(store, nil)
	s.now = func() time.Time { return now }
	return s
}

func obj(id string, age time.Duration, size int64, now time.Time) storage.ObjectInfo {
	key := storage.RecordingKey(id)
	return storage.ObjectInfo{
		Key:          key,
		Name:         id + ".webm",
		Size:         size,
		LastModified: now.Add(-age),
	}
}

func TestSweepClassifiesByAge(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{objects: []storage.ObjectInfo{
		obj("rec_a", 20*24*time.Hour, 100, now),
		obj("rec_b", 20*24*time.Hour, 200, now),
		obj("rec_c", 5*24*time.Hour, 50, now),
		obj("rec_d", 5*24*time.Hour, 50, now),
		obj("rec_e", 5*24*time.Hour, 50, now),
	}}

	report, err := newTestSweeper(store, now).Sweep(context.Background(), 14, false)
	require.NoError(t, err)

	require.Equal(t, 5, report.TotalCount)
	require.Equal(t, int64(450), report.TotalBytes)
	require.Equal(t, 2, report.OldCount)
	require.Equal(t, int64(300), report.OldBytes)
	require.Equal(t, []string{"rec_a.webm", "rec_b.webm"}, report.Deleted)
	require.Empty(t, report.Failed)
	require.Equal(t, int64(300), report.DeletedBytes)

	// Kept objects were never touched.
	require.ElementsMatch(t, []string{storage.RecordingKey("rec_a"), storage.RecordingKey("rec_b")}, store.calls)
}

func TestSweepBoundaryObjectIsKept(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoffAge := 14 * 24 * time.Hour
	store := &fakeStore{objects: []storage.ObjectInfo{
		obj("rec_exact", cutoffAge, 100, now),
		obj("rec_older", cutoffAge+time.Millisecond, 100, now),
	}}

	report, err := newTestSweeper(store, now).Sweep(context.Background(), 14, false)
	require.NoError(t, err)

	require.Equal(t, 1, report.OldCount)
	require.Equal(t, []string{"rec_older.webm"}, report.Deleted)
}

func TestSweepDryRunNeverDeletes(t *testing.T) {
	now := time.Now()
	store := &fakeStore{objects: []storage.ObjectInfo{
		obj("rec_old1", 30*24*time.Hour, 100, now),
		obj("rec_old2", 40*24*time.Hour, 100, now),
		{Key: storage.RecordingKey("rec_nots"), Name: "rec_nots.webm", Size: 10}, // zero LastModified
	}}

	report, err := newTestSweeper(store, now).Sweep(context.Background(), 14, true)
	require.NoError(t, err)

	require.True(t, report.DryRun)
	require.Equal(t, 3, report.TotalCount)
	require.Equal(t, 2, report.OldCount)
	require.Empty(t, report.Deleted)
	require.Empty(t, report.Failed)
	require.Zero(t, report.DeletedBytes)
	require.Empty(t, store.calls, "dry run must not issue delete calls")
}

func TestSweepPartialFailureContinues(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		objects: []storage.ObjectInfo{
			obj("rec_1", 30*24*time.Hour, 100, now),
			obj("rec_2", 30*24*time.Hour, 100, now),
			obj("rec_3", 30*24*time.Hour, 100, now),
		},
		failKeys: map[string]bool{storage.RecordingKey("rec_2"): true},
	}

	report, err := newTestSweeper(store, now).Sweep(context.Background(), 14, false)
	require.NoError(t, err)

	require.Equal(t, []string{"rec_1.webm", "rec_3.webm"}, report.Deleted)
	require.Equal(t, []string{"rec_2.webm"}, report.Failed)
	require.Equal(t, int64(200), report.DeletedBytes)
	// Both succeeding deletions actually happened despite the failure in between.
	require.Equal(t, []string{storage.RecordingKey("rec_1"), storage.RecordingKey("rec_3")}, store.deleted)
}

func TestSweepMissingTimestampCountedFailed(t *testing.T) {
	now := time.Now()
	store := &fakeStore{objects: []storage.ObjectInfo{
		obj("rec_ok", 30*24*time.Hour, 100, now),
		{Key: storage.RecordingKey("rec_nots"), Name: "rec_nots.webm", Size: 999},
	}}

	report, err := newTestSweeper(store, now).Sweep(context.Background(), 14, false)
	require.NoError(t, err)

	// Excluded from both size sums, reported as failed, not deleted.
	require.Equal(t, int64(100), report.TotalBytes)
	require.Equal(t, 1, report.OldCount)
	require.Equal(t, []string{"rec_nots.webm"}, report.Failed)
	require.Equal(t, []string{"rec_ok.webm"}, report.Deleted)
	require.NotContains(t, store.calls, storage.RecordingKey("rec_nots"))
}

func TestSweepListFailureReturnsError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("bucket unreachable")}

	report, err := newTestSweeper(store, time.Now()).Sweep(context.Background(), 14, false)
	require.Error(t, err)
	require.Nil(t, report)
	require.Empty(t, store.calls)
}
