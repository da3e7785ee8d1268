// Package retention reclaims bucket space by deleting recordings older
// than the configured retention period. It mirrors the free-tier
// cleanup policy: recordings are kept for a fixed number of days and
// swept on a schedule, best-effort per object.
package retention

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/laneway/backend/pkg/storage"
)

// ObjectStore is the slice of the storage gateway the sweeper needs.
type ObjectStore interface {
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	DeleteObject(ctx context.Context, key string) error
}

// Report summarizes one sweep run. It is ephemeral: produced for the
// caller and the logs, never persisted.
type Report struct {
	Cutoff       time.Time `json:"cutoff"`
	DryRun       bool      `json:"dry_run"`
	TotalCount   int       `json:"total_count"`
	TotalBytes   int64     `json:"total_bytes"`
	OldCount     int       `json:"old_count"`
	OldBytes     int64     `json:"old_bytes"`
	DeletedBytes int64     `json:"deleted_bytes"`
	Deleted      []string  `json:"deleted"`
	Failed       []string  `json:"failed"`
}

// Sweeper classifies recordings by age and deletes those past the
// retention cutoff.
type Sweeper struct {
	store  ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

// NewSweeper creates a retention sweeper.
func NewSweeper(store ObjectStore, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{store: store, now: time.Now, logger: logger}
}

// Sweep lists one page of recordings, classifies each against
// now - retentionDays, and deletes the old ones unless dryRun is set.
//
// An object whose last-modified equals the cutoff exactly is kept:
// deletion eligibility is strict less-than. One object's deletion
// failure never aborts the rest of the batch; failures are reported in
// Report.Failed and retried naturally by the next scheduled sweep,
// since the object stays in the bucket and stays past cutoff.
//
// A dry run is a pure classification pass: no delete calls are issued
// and the Deleted/Failed lists stay empty.
func (s *Sweeper) Sweep(ctx context.Context, retentionDays int, dryRun bool) (*Report, error) {
	objects, err := s.store.ListObjects(ctx, storage.RecordingPrefix)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	report := &Report{
		Cutoff:  cutoff,
		DryRun:  dryRun,
		Deleted: []string{},
		Failed:  []string{},
	}

	var old []storage.ObjectInfo
	var unparsed []storage.ObjectInfo
	for _, obj := range objects {
		report.TotalCount++
		if obj.LastModified.IsZero() {
			// No usable timestamp; excluded from the age sums either way.
			unparsed = append(unparsed, obj)
			continue
		}
		report.TotalBytes += obj.Size
		if obj.LastModified.Before(cutoff) {
			old = append(old, obj)
			report.OldCount++
			report.OldBytes += obj.Size
		}
	}

	s.logger.Info("retention sweep classified",
		zap.Time("cutoff", cutoff),
		zap.Int("total", report.TotalCount),
		zap.String("total_size", humanBytes(report.TotalBytes)),
		zap.Int("old", report.OldCount),
		zap.String("old_size", humanBytes(report.OldBytes)),
		zap.Int("missing_timestamp", len(unparsed)),
		zap.Bool("dry_run", dryRun))

	if dryRun {
		return report, nil
	}

	for _, obj := range unparsed {
		report.Failed = append(report.Failed, obj.Name)
	}
	for _, obj := range old {
		if err := s.store.DeleteObject(ctx, obj.Key); err != nil {
			s.logger.Error("delete recording failed",
				zap.String("key", obj.Key), zap.Error(err))
			report.Failed = append(report.Failed, obj.Name)
			continue
		}
		report.Deleted = append(report.Deleted, obj.Name)
		report.DeletedBytes += obj.Size
		s.logger.Info("deleted recording",
			zap.String("key", obj.Key),
			zap.String("size", humanBytes(obj.Size)),
			zap.Int("age_days", int(s.now().Sub(obj.LastModified).Hours()/24)))
	}

	s.logger.Info("retention sweep complete",
		zap.Int("deleted", len(report.Deleted)),
		zap.Int("failed", len(report.Failed)),
		zap.String("freed", humanBytes(report.DeletedBytes)))
	return report, nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGT"[exp])
}
