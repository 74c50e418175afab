package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{log: log.With("handler", "SSEHandler"), hub: hub}
}

// SSEStream subscribes the caller to their per-user event channel and holds
// the connection open until the client disconnects.
func (sh *SSEHandler) SSEStream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	client := sh.hub.NewSSEClient(userID)
	sh.hub.AddChannel(client, sse.UserChannel(userID))
	defer sh.hub.CloseClient(client)

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
