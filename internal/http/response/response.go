package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError writes a service error with the status and code it carries.
// Unclassified errors become a 500 without leaking their text.
func RespondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{Error: APIError{Message: "internal error", Code: apierr.CodeInternal}})
		return
	}
	status := ae.Status
	if status == 0 {
		status = statusForKind(ae.Kind)
	}
	msg := ae.Message
	if msg == "" || status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	_ = c.Error(err)
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: ae.Code}})
}

func statusForKind(k apierr.Kind) int {
	switch k {
	case apierr.KindAuth:
		return http.StatusUnauthorized
	case apierr.KindValidation, apierr.KindDuplicateApplication, apierr.KindAlreadySaved:
		return http.StatusBadRequest
	case apierr.KindConflict, apierr.KindInFlight:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
