package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/services"
)

type InterviewHandler struct {
	svc       services.InterviewService
	responses services.ResponseService
}

func NewInterviewHandler(svc services.InterviewService, responses services.ResponseService) *InterviewHandler {
	return &InterviewHandler{svc: svc, responses: responses}
}

func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req services.StartInterviewInput
	if !bindJSON(c, "InterviewHandler.Start", &req) {
		return
	}
	if req.CandidateName == "" {
		req.CandidateName = c.GetString("user_name")
	}

	iv, err := h.svc.Start(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"interview": iv})
}

// Get returns the session log and, when the buffer is configured, the
// answer chunks recorded so far.
func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	iv, err := h.svc.Get(ctx, userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	body := gin.H{"interview": iv}
	if h.responses != nil {
		rows, err := h.responses.ListBySession(ctx, iv.SessionID, 500)
		if err != nil {
			writeError(c, err)
			return
		}
		body["responses"] = rows
	}
	writeOK(c, http.StatusOK, body)
}

func (h *InterviewHandler) End(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	iv, err := h.svc.End(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"interview": iv})
}
