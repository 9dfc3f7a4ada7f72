package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/consultapp/partner-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// WriteError renders an engine error with its stable code. Infrastructure
// details are never echoed to the client.
func WriteError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)

	message := appErr.Message
	if appErr.Code == apperrors.ErrInfrastructure {
		message = "internal error"
	}

	c.JSON(appErr.HTTPStatus(), &Response{
		Status:  "error",
		Code:    appErr.Label(),
		Message: message,
	})

	c.Error(err)
}
