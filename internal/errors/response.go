package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform JSON wrapper for every response.
type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
	Field      string      `json:"field,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Success writes a success envelope.
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{
		Status:     StatusSuccess,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

// RespondWithError writes an error envelope and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		Status:     StatusError,
		StatusCode: statusCode,
		Error:      message,
		Code:       errorCode,
	})
}

// RespondWithAppError classifies err and writes the matching error envelope.
func RespondWithAppError(c *gin.Context, err error) {
	appErr := As(err)
	status := appErr.HTTPStatus()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, Envelope{
		Status:     StatusError,
		StatusCode: status,
		Error:      appErr.Message,
		Code:       appErr.Code,
		Field:      appErr.Field,
	})
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, ResourceNotFound, message)
}

func MethodNotAllowed(c *gin.Context) {
	RespondWithError(c, http.StatusMethodNotAllowed, RequestMethodNotAllowed, "Method not allowed")
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, InternalUnavailable, message)
}
