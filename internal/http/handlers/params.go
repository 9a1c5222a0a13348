package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

// uuidParam parses a path parameter, writing a 400 and returning false when it is not a uuid.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		c.JSON(http.StatusBadRequest, response.ErrorEnvelope{Error: response.APIError{
			Message: "invalid " + name,
			Code:    apierr.CodeValidation,
		}})
		return uuid.Nil, false
	}
	return id, true
}

func badBody(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
}
