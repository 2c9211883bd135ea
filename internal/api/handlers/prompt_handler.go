package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/prompts"
	"github.com/yoockh/careerpilot/internal/utils"
)

// PromptStore persists admin edits. *prompts.RemoteSource implements it.
type PromptStore interface {
	Save(ctx context.Context, t *models.PromptTemplate) error
}

type PromptHandler struct {
	resolver *prompts.Resolver
	store    PromptStore
}

// NewPromptHandler takes a nil store when no database is configured; writes
// then answer 503.
func NewPromptHandler(resolver *prompts.Resolver, store PromptStore) *PromptHandler {
	return &PromptHandler{resolver: resolver, store: store}
}

type UpsertPromptRequest struct {
	Category  string   `json:"category"`
	Content   string   `json:"content" binding:"required"`
	Variables []string `json:"variables"`
	IsActive  *bool    `json:"is_active"`
}

func (h *PromptHandler) Get(c *gin.Context) {
	t, err := h.resolver.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"prompt": t})
}

func (h *PromptHandler) List(c *gin.Context) {
	rows, err := h.resolver.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, gin.H{"prompts": rows})
}

func (h *PromptHandler) Upsert(c *gin.Context) {
	const op = "PromptHandler.Upsert"

	if h.store == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "prompt store is not configured", nil))
		return
	}
	var req UpsertPromptRequest
	if !bindJSON(c, op, &req) {
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" || strings.TrimSpace(req.Content) == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "name and content are required", nil))
		return
	}

	t := &models.PromptTemplate{
		Name:      name,
		Category:  req.Category,
		Content:   req.Content,
		Variables: req.Variables,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := h.store.Save(c.Request.Context(), t); err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to save prompt", err))
		return
	}
	writeOK(c, http.StatusOK, gin.H{"prompt": t})
}
