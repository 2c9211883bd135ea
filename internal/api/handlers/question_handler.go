package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/careerpilot/internal/api/middleware"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/services"
)

type QuestionHandler struct {
	svc services.QuestionService
	log logrus.FieldLogger
}

func NewQuestionHandler(svc services.QuestionService, log logrus.FieldLogger) *QuestionHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QuestionHandler{svc: svc, log: log}
}

type GenerateQuestionsRequest struct {
	JobID             string            `json:"job_id" binding:"required"`
	ResumeID          string            `json:"resume_id"`
	ExistingQuestions *models.Questions `json:"existing_questions"`
	Save              bool              `json:"save"`
}

type SaveQuestionsRequest struct {
	JobID     string           `json:"job_id" binding:"required"`
	ResumeID  string           `json:"resume_id"`
	Questions models.Questions `json:"questions"`
}

// Generate returns generated questions. With save=true the set is also
// persisted; a save failure is reported next to the questions instead of
// failing the request.
func (h *QuestionHandler) Generate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req GenerateQuestionsRequest
	if !bindJSON(c, "QuestionHandler.Generate", &req) {
		return
	}
	ctx := c.Request.Context()

	qs, err := h.svc.Generate(ctx, userID, req.JobID, req.ResumeID, req.ExistingQuestions)
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{"questions": qs}
	if req.Save {
		if _, err := h.svc.Save(ctx, userID, req.JobID, *qs, req.ResumeID); err != nil {
			middleware.Logger(c, h.log).WithError(err).WithField("job_id", req.JobID).Warn("generated questions not saved")
			body["saved"] = false
			body["saveError"] = "questions were generated but could not be saved"
		} else {
			body["saved"] = true
		}
	}
	writeOK(c, http.StatusOK, body)
}

func (h *QuestionHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SaveQuestionsRequest
	if !bindJSON(c, "QuestionHandler.Save", &req) {
		return
	}

	set, err := h.svc.Save(c.Request.Context(), userID, req.JobID, req.Questions, req.ResumeID)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"questions": set.Questions(), "updated_at": set.UpdatedAt})
}

func (h *QuestionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	set, err := h.svc.Get(c.Request.Context(), userID, c.Param("job_id"), c.Query("resume_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"questions": set.Questions(), "updated_at": set.UpdatedAt})
}
