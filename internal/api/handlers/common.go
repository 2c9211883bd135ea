package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/utils"
)

// APIError is the failure body of every endpoint.
type APIError struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Code    utils.Code `json:"code"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{Code: ae.Code, Error: ae.Message})
		return
	}

	c.JSON(status, APIError{Code: utils.CodeOf(err), Error: http.StatusText(status)})
}

// writeOK merges payload into a success body.
func writeOK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return false
	}
	return true
}
