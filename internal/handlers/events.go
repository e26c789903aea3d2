package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/realtime"
	"github.com/plately/plately-backend/internal/requestdata"
)

type EventsHandler struct {
	hub *realtime.Hub
	log *logger.Logger
}

func NewEventsHandler(hub *realtime.Hub, baseLog *logger.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: baseLog.With("handler", "EventsHandler")}
}

// Stream pushes the caller's realtime events (mission assignments,
// completions, streaks, badges, level-ups) over server-sent events.
func (h *EventsHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	ch, cancel := h.hub.Subscribe(rd.UserID.String())
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(msg.Data)
			if err != nil {
				h.log.Warn("event payload marshal failed", "event", msg.Event, "error", err)
				return true
			}
			c.SSEvent(msg.Event, string(payload))
			return true
		}
	})
}
