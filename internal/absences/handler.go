// Package absences lets employees flag a planned meeting absence ahead
// of time; the extension fetches and announces them at meeting start.
package absences

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/laneway/backend/internal/middleware"
	"github.com/laneway/backend/internal/models"
	"github.com/laneway/backend/pkg/response"
)

// NotifyRequest is the body for POST /api/absences/notify.
type NotifyRequest struct {
	MeetingID        string `json:"meeting_id" binding:"required"`
	EmployeeID       string `json:"employee_id" binding:"required"`
	Reason           string `json:"reason" binding:"required"`
	AbsenceType      string `json:"absence_type" binding:"required"`
	ExpectedDuration string `json:"expected_duration"`
}

// Handler handles absence HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an absences handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Notify handles POST /api/absences/notify.
func (h *Handler) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.ExpectedDuration == "" {
		req.ExpectedDuration = "all_meeting"
	}

	name, _ := c.MustGet(middleware.ContextUserName).(string)
	email, _ := c.MustGet(middleware.ContextUserEmail).(string)

	absence := &models.Absence{
		ID:               uuid.New(),
		MeetingID:        req.MeetingID,
		EmployeeID:       req.EmployeeID,
		EmployeeName:     name,
		EmployeeEmail:    email,
		Reason:           req.Reason,
		AbsenceType:      req.AbsenceType,
		ExpectedDuration: req.ExpectedDuration,
		InformedAt:       time.Now(),
	}
	if err := h.repo.Insert(c.Request.Context(), absence); err != nil {
		h.logger.Error("insert absence failed",
			zap.String("meeting_id", req.MeetingID), zap.Error(err))
		response.Internal(c, "failed to store absence")
		return
	}
	response.OK(c, gin.H{"id": absence.ID, "message": "Absence notification sent successfully"})
}

// ListByMeeting handles GET /api/absences/meeting/:id, returning
// absences not yet shown in the meeting.
func (h *Handler) ListByMeeting(c *gin.Context) {
	meetingID := c.Param("id")
	list, err := h.repo.ListPendingByMeeting(c.Request.Context(), meetingID)
	if err != nil {
		h.logger.Error("list absences failed", zap.String("meeting_id", meetingID), zap.Error(err))
		response.Internal(c, "failed to list absences")
		return
	}
	response.OK(c, gin.H{
		"meeting_id":     meetingID,
		"absences":       list,
		"total_absences": len(list),
	})
}

// MarkShownRequest is the body for POST /api/absences/mark-shown.
type MarkShownRequest struct {
	MeetingID string `json:"meeting_id" binding:"required"`
}

// MarkShown handles POST /api/absences/mark-shown.
func (h *Handler) MarkShown(c *gin.Context) {
	var req MarkShownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "meeting_id is required")
		return
	}
	if err := h.repo.MarkShown(c.Request.Context(), req.MeetingID); err != nil {
		h.logger.Error("mark absences shown failed",
			zap.String("meeting_id", req.MeetingID), zap.Error(err))
		response.Internal(c, "failed to update absences")
		return
	}
	response.OK(c, nil)
}
