// Package recordings implements the recording object lifecycle: issuing
// presigned upload URLs, tracking each recording from "uploading" to
// "completed" and reconciling participant telemetry at completion.
package recordings

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laneway/backend/internal/models"
	"github.com/laneway/backend/pkg/queue"
	"github.com/laneway/backend/pkg/response"
	"github.com/laneway/backend/pkg/storage"
)

// UploadURLRequest is the body for POST /api/recordings/upload-url.
type UploadURLRequest struct {
	MeetingID     string `json:"meetingId" binding:"required"`
	EstimatedSize int64  `json:"estimatedSize"`
	Format        string `json:"format"`
}

// CompleteRequest is the body for POST /api/recordings/complete.
type CompleteRequest struct {
	RecordingID  string             `json:"recordingId" binding:"required"`
	MeetingID    string             `json:"meetingId" binding:"required"`
	Metadata     map[string]any     `json:"metadata"`
	Participants []ParticipantInput `json:"participants"`
	Duration     int64              `json:"duration"` // milliseconds
}

// Handler handles recording HTTP endpoints.
type Handler struct {
	repo         *Repository
	reconciler   *Reconciler
	store        *storage.Client
	queue        *queue.Queue // optional downstream processing hook; nil disables
	uploadExpiry time.Duration
	logger       *zap.Logger
}

// NewHandler creates a recordings handler.
func NewHandler(repo *Repository, reconciler *Reconciler, store *storage.Client, q *queue.Queue, uploadExpiry time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:         repo,
		reconciler:   reconciler,
		store:        store,
		queue:        q,
		uploadExpiry: uploadExpiry,
		logger:       logger,
	}
}

// GetUploadURL handles POST /api/recordings/upload-url. The extension
// uploads directly to the bucket with the returned URL; the backend
// only records the metadata. The response shape is part of the
// extension contract, so it is returned raw rather than enveloped.
//
// Storage being down does not fail this endpoint: the URL degrades to a
// local placeholder and the registry row is still created.
func (h *Handler) GetUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	recordingID := models.NewRecordingID(req.MeetingID, time.Now())
	uploadURL, key := h.store.IssueUploadHandle(c.Request.Context(), recordingID, h.uploadExpiry)

	if err := h.repo.CreateUploadRecord(c.Request.Context(), recordingID, req.MeetingID, key); err != nil {
		h.logger.Error("create upload record failed",
			zap.String("recording_id", recordingID), zap.Error(err))
		response.Internal(c, "failed to register recording")
		return
	}

	h.logger.Info("issued upload URL",
		zap.String("recording_id", recordingID),
		zap.String("meeting_id", req.MeetingID),
		zap.Int64("estimated_size", req.EstimatedSize))
	c.JSON(http.StatusOK, gin.H{
		"uploadUrl":   uploadURL,
		"recordingId": recordingID,
	})
}

// Complete handles POST /api/recordings/complete: marks the recording
// completed and persists per-participant analytics rows. Participant
// persistence is per-item; a mid-batch failure is reflected in the
// message, not rolled back.
func (h *Handler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.reconciler.Complete(c.Request.Context(), req.RecordingID, req.MeetingID, req.Duration, req.Participants)
	if err != nil {
		h.logger.Error("complete recording failed",
			zap.String("recording_id", req.RecordingID), zap.Error(err))
		response.Internal(c, "failed to complete recording")
		return
	}

	// Downstream processing (transcription, task extraction) hangs off
	// this queue; the worker side is still a stub, so taskCount stays 0.
	taskCount := 0
	if h.queue != nil {
		if err := h.queue.EnqueueProcessing(c.Request.Context(), queue.ProcessingPayload{
			RecordingID: req.RecordingID,
			MeetingID:   req.MeetingID,
			StorageKey:  storage.RecordingKey(req.RecordingID),
		}); err != nil {
			h.logger.Warn("enqueue processing job failed",
				zap.String("recording_id", req.RecordingID), zap.Error(err))
		}
	}

	message := "Recording processed successfully"
	if len(result.Failed) > 0 {
		message = fmt.Sprintf("Recording completed; %d of %d participants failed to persist",
			len(result.Failed), len(req.Participants))
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   message,
		"taskCount": taskCount,
	})
}

// ListByMeeting handles GET /api/recordings?meeting_id=.
func (h *Handler) ListByMeeting(c *gin.Context) {
	meetingID := c.Query("meeting_id")
	if meetingID == "" {
		response.BadRequest(c, "meeting_id is required")
		return
	}
	list, err := h.repo.ListByMeeting(c.Request.Context(), meetingID)
	if err != nil {
		h.logger.Error("list recordings failed", zap.String("meeting_id", meetingID), zap.Error(err))
		response.Internal(c, "failed to list recordings")
		return
	}
	response.OK(c, list)
}

// GetDownloadURL handles GET /api/recordings/:id/download-url. Returns
// a presigned GET URL for a completed recording. A presign failure
// means the download is currently unavailable, not that the object is
// gone.
func (h *Handler) GetDownloadURL(c *gin.Context) {
	rec, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("get recording failed", zap.String("recording_id", c.Param("id")), zap.Error(err))
		response.Internal(c, "failed to load recording")
		return
	}
	if rec == nil {
		response.NotFound(c, "recording not found")
		return
	}
	if rec.Status != models.RecordingStatusCompleted {
		response.BadRequest(c, "recording not ready for download")
		return
	}
	url, err := h.store.PresignDownload(c.Request.Context(), rec.StorageKey, h.uploadExpiry)
	if err != nil {
		h.logger.Error("presign download failed", zap.String("key", rec.StorageKey), zap.Error(err))
		response.ServiceUnavailable(c, "download currently unavailable")
		return
	}
	response.OK(c, gin.H{"download_url": url, "expires_in": int(h.uploadExpiry.Seconds())})
}
