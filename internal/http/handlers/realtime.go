package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/http/response"
	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
	"github.com/yungbote/scholarlink/internal/platform/logger"
	"github.com/yungbote/scholarlink/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{log: logger.OrNop(log).With("handler", "RealtimeHandler"), hub: hub}
}

// GET /events
func (h *RealtimeHandler) Stream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, response.ErrorEnvelope{Error: response.APIError{
			Message: "not authenticated",
			Code:    apierr.CodeUnauthorized,
		}})
		return
	}
	client := h.hub.NewClient(rd.UserID)
	h.hub.AddChannel(client, realtime.UserChannel(rd.UserID))
	defer h.hub.CloseClient(client)

	h.log.Debug("Event stream open", "user_id", rd.UserID, "client_id", client.ID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.log.Debug("Event stream closed", "user_id", rd.UserID, "client_id", client.ID)
}
