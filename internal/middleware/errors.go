package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-portal/internal/apperrors"
)

type APIError struct {
	Message string `json:"message"`
	Error   struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		RequestID string         `json:"request_id,omitempty"`
		Details   map[string]any `json:"details,omitempty"`
	} `json:"error"`
}

// RespondError aborts the chain and renders err as the JSON error envelope.
// Internal errors are attached to the context for the access log and their
// cause is not sent to the client.
func RespondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)

	message := appErr.Message
	if appErr.Kind == apperrors.KindInternal {
		message = "internal server error"
		_ = c.Error(appErr)
	}

	var body APIError
	body.Message = message
	body.Error.Code = string(appErr.Kind)
	body.Error.Message = message
	body.Error.RequestID = RequestIDFrom(c)
	body.Error.Details = appErr.Details
	c.AbortWithStatusJSON(appErr.Status(), body)
}
