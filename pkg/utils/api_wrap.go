package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Reason  string      `json:"reason,omitempty"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondStatus(c, http.StatusOK, data, message)
}

func RespondStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError writes the error envelope for a service failure.
// Internal errors are logged and their details hidden from the caller.
func HandleServiceError(c *gin.Context, log *zap.Logger, err error) {
	status, reason := Classify(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed",
				zap.String("trace_id", c.GetString("trace_id")),
				zap.String("path", c.FullPath()),
				zap.Error(err))
		}
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		} else {
			message = ErrUpstreamUnavailable.Error()
		}
	}

	c.JSON(status, APIResponse{
		Status:  "error",
		Code:    status,
		Reason:  reason,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}
