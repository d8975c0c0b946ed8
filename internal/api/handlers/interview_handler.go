package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/services"
	"github.com/nexhire/backend/internal/utils"
)

const maxAudioBytes = 25 << 20

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type StartInterviewRequest struct {
	InterviewType string `json:"interviewType" binding:"required"` // technical|behavioral
	QuestionCount int    `json:"questionCount" binding:"required"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
		return
	}

	res, err := h.svc.Start(c.Request.Context(), userID, req.InterviewType, req.QuestionCount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type SubmitResponseRequest struct {
	QuestionIndex *int    `json:"questionIndex" binding:"required"`
	Response      string  `json:"response" binding:"required"`
	TimeSpent     float64 `json:"timeSpent"`
}

func (h *InterviewHandler) SubmitResponse(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SubmitResponse", "invalid request body", err))
		return
	}

	sessionID := c.Param("session_id")
	if err := h.svc.SubmitTextResponse(c.Request.Context(), sessionID, *req.QuestionIndex, req.Response, req.TimeSpent); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *InterviewHandler) SubmitAudio(c *gin.Context) {
	const op = "InterviewHandler.SubmitAudio"

	if _, ok := requireUserID(c); !ok {
		return
	}

	sessionID := c.Param("session_id")

	questionIndex, err := strconv.Atoi(c.PostForm("questionIndex"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "questionIndex must be an integer", err))
		return
	}
	recordingTime, _ := strconv.ParseFloat(c.PostForm("recordingTime"), 64)

	fh, err := c.FormFile("audio")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file is required", err))
		return
	}
	if fh.Size > maxAudioBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file too large", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read audio file", err))
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read audio file", err))
		return
	}

	res, err := h.svc.SubmitAudioResponse(c.Request.Context(), sessionID, questionIndex, audio, fh.Header.Get("Content-Type"), recordingTime)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *InterviewHandler) Complete(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	res, err := h.svc.Complete(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	// Owners and recruiters may read a session.
	role, _ := c.Get("role")
	if sess.UserID != userID && role != models.RoleHR && role != models.RoleAdmin {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.Get", "forbidden", nil))
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *InterviewHandler) Results(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	overview, err := h.svc.ListResults(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
