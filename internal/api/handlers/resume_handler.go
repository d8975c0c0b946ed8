package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexhire/backend/internal/services"
	"github.com/nexhire/backend/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

// Analyze accepts a PDF resume plus an optional target job description,
// runs the analysis service, and stores the result on the candidate profile.
func (h *ResumeHandler) Analyze(c *gin.Context) {
	const op = "ResumeHandler.Analyze"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "resume file is required", err))
		return
	}
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

	analysis, err := h.svc.AnalyzeAndStore(c.Request.Context(), userID, c.PostForm("full_name"), data, c.PostForm("job_description"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *ResumeHandler) Profile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SimilarCandidates is an HR-facing search over resume embeddings.
func (h *ResumeHandler) SimilarCandidates(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	userID := c.Param("user_id")
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = 5
	}

	out, err := h.svc.SimilarCandidates(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": out})
}
