package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/services"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req services.JobInput
	if !bindJSON(c, "JobHandler.Create", &req) {
		return
	}

	job, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, gin.H{"job": job})
}

func (h *JobHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	jobs, err := h.svc.List(c.Request.Context(), userID, models.JobStatus(c.Query("status")), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	job, err := h.svc.Get(c.Request.Context(), userID, c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req services.JobPatch
	if !bindJSON(c, "JobHandler.Update", &req) {
		return
	}

	job, err := h.svc.Update(c.Request.Context(), userID, c.Param("job_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"job": job})
}
