package live

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const eventSnapshot = "snapshot"

// SSEHandler streams frames as "snapshot" Server-Sent Events.
func (h *Hub) SSEHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := h.subscribe()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed closed"})
			return
		}
		defer h.unsubscribe(sub)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		c.SSEvent("connected", gin.H{"clientId": sub.id})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case frame, ok := <-sub.frames:
				if !ok {
					return
				}
				c.SSEvent(eventSnapshot, string(frame))
				c.Writer.Flush()
			}
		}
	}
}
