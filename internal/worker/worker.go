// Package worker consumes background jobs produced by the API.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/laneway/backend/internal/recordings"
	"github.com/laneway/backend/pkg/queue"
)

// Processor consumes recording processing jobs. The downstream pipeline
// (transcription, task extraction, Notion sync) is not built yet, so
// Process only validates the job and logs it; completed jobs are
// acknowledged so the queue drains.
type Processor struct {
	recRepo *recordings.Repository
	queue   *queue.Queue
	logger  *zap.Logger
}

// NewProcessor creates a processing job consumer.
func NewProcessor(recRepo *recordings.Repository, q *queue.Queue, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{recRepo: recRepo, queue: q, logger: logger}
}

// Process executes one job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeProcessing {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ProcessingPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	rec, err := p.recRepo.GetByID(ctx, payload.RecordingID)
	if err != nil {
		return fmt.Errorf("load recording: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("recording not found: %s", payload.RecordingID)
	}

	// TODO: wire the transcription pipeline here once it exists; until
	// then the job is a no-op and the API reports taskCount 0.
	p.logger.Info("processing job acknowledged (pipeline not implemented)",
		zap.String("recording_id", payload.RecordingID),
		zap.String("storage_key", payload.StorageKey))
	return nil
}

// Run starts the consumer loop: dequeue, process, retry on error.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("processing worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
