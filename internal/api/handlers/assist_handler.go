package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/services"
)

type AssistHandler struct {
	svc services.AssistService
}

func NewAssistHandler(svc services.AssistService) *AssistHandler {
	return &AssistHandler{svc: svc}
}

func (h *AssistHandler) CoverLetter(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req services.AssistRequest
	if !bindJSON(c, "AssistHandler.CoverLetter", &req) {
		return
	}
	if req.CandidateName == "" {
		req.CandidateName = c.GetString("user_name")
	}

	res, err := h.svc.CoverLetter(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"result": res})
}

func (h *AssistHandler) ResumeSuggestions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req services.AssistRequest
	if !bindJSON(c, "AssistHandler.ResumeSuggestions", &req) {
		return
	}

	res, err := h.svc.ResumeSuggestions(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"result": res})
}
