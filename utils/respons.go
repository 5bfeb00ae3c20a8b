package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

var errInternal = errors.New("internal server error")

// RespondInternalError logs err and hides it from the client.
func RespondInternalError(c *gin.Context, err error) {
	ErrorLogger.WithFields(map[string]interface{}{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	}).Errorf("request failed: %v", err)
	RespondError(c, http.StatusInternalServerError, errInternal)
}
