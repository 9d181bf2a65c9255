package live

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	readLimit  = 1024
)

// The feed is read-only and carries no credentials, so any origin may
// subscribe.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// WebsocketHandler upgrades the request and streams frames as text
// messages until either side goes away.
func (h *Hub) WebsocketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := h.subscribe()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed closed"})
			return
		}
		defer h.unsubscribe(sub)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Warn("live: websocket upgrade failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close()
		}()

		// Client messages are only read to notice pongs and disconnects.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			conn.SetReadLimit(readLimit)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						h.log.Debug("live: websocket read ended", "client_id", sub.id, "error", err)
					}
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-gone:
				return
			case frame, ok := <-sub.frames:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
