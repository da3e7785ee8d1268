// Package analytics receives raw meeting telemetry from the extension
// and serves the weekly summary shown in the popup.
package analytics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/laneway/backend/internal/middleware"
	"github.com/laneway/backend/internal/models"
	"github.com/laneway/backend/pkg/response"
)

// Handler handles analytics HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an analytics handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// snapshotEnvelope is the subset of the telemetry payload the backend
// indexes; the full payload is stored verbatim.
type snapshotEnvelope struct {
	MeetingID string `json:"meetingId"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Upload handles POST /api/analytics/upload: stores one raw telemetry
// snapshot for later aggregation.
func (h *Handler) Upload(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	var env snapshotEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.MeetingID == "" {
		response.BadRequest(c, "meetingId is required")
		return
	}

	snapshot := &models.AnalyticsSnapshot{
		ID:        uuid.New(),
		MeetingID: env.MeetingID,
		Timestamp: time.UnixMilli(env.Timestamp),
		Data:      raw,
	}
	if err := h.repo.InsertSnapshot(c.Request.Context(), snapshot); err != nil {
		h.logger.Error("insert analytics snapshot failed",
			zap.String("meeting_id", env.MeetingID), zap.Error(err))
		response.Internal(c, "failed to store analytics")
		return
	}
	response.OK(c, nil)
}

// GetUserStats handles GET /api/analytics/user/:id. Stats are keyed by
// the authenticated user's email from the JWT; the path parameter is
// kept for extension compatibility but not trusted for identity.
// Response shape matches the popup contract, so it is returned raw.
func (h *Handler) GetUserStats(c *gin.Context) {
	email, _ := c.MustGet(middleware.ContextUserEmail).(string)
	if email == "" {
		response.BadRequest(c, "authenticated user has no email")
		return
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	stats, err := h.repo.UserStats(c.Request.Context(), email, weekAgo)
	if err != nil {
		h.logger.Error("load user stats failed", zap.String("email", email), zap.Error(err))
		response.Internal(c, "failed to load analytics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
