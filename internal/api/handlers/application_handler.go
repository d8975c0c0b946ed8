package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexhire/backend/internal/services"
	"github.com/nexhire/backend/internal/utils"
)

const maxResumeBytes = 10 << 20

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// Apply accepts multipart form data: job_id, cover_letter, and an optional
// resume file.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	const op = "ApplicationHandler.Apply"

	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobID := c.PostForm("job_id")
	if jobID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil))
		return
	}

	in := services.ApplyInput{
		JobID:       jobID,
		CoverLetter: c.PostForm("cover_letter"),
	}

	if fh, err := c.FormFile("resume"); err == nil {
		if fh.Size > maxResumeBytes {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "resume file too large", nil))
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to read resume file", err))
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxResumeBytes+1))
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to read resume file", err))
			return
		}
		in.Resume = data
		in.ResumeFileName = fh.Filename
		in.ResumeType = fh.Header.Get("Content-Type")
	}

	app, err := h.svc.Apply(c.Request.Context(), candidateID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.svc.ListForCandidate(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) ListForHR(c *gin.Context) {
	hrID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.svc.ListForHR(c.Request.Context(), hrID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"` // pending|shortlisted|rejected|accepted
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	hrID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.UpdateStatus", "invalid request body", err))
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), hrID, c.Param("application_id"), req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ApplicationHandler) Stats(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.CandidateStats(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ApplicationHandler) HRStats(c *gin.Context) {
	hrID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.HRStats(c.Request.Context(), hrID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
