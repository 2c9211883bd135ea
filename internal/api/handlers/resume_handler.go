package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/services"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

type CreateResumeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

func (h *ResumeHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req CreateResumeRequest
	if !bindJSON(c, "ResumeHandler.Create", &req) {
		return
	}

	r, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"resume": r})
}

func (h *ResumeHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	r, err := h.svc.Get(c.Request.Context(), userID, c.Param("resume_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"resume": r})
}
