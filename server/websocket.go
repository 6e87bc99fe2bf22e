package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsInbound struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and runs a chat loop: each inbound user
// message streams back transcript snapshots, then a done marker.
func ServeWS(c *gin.Context, m *Manager) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := c.Param("sessionID")
	session := m.GetOrCreate(sessionID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket session %s ended: %v", sessionID, err)
			return
		}

		var inbound wsInbound
		if err := json.Unmarshal(raw, &inbound); err != nil {
			if err := conn.WriteJSON(map[string]string{"error": "invalid message"}); err != nil {
				return
			}
			continue
		}

		for snapshot := range session.Submit(c.Request.Context(), inbound.Message) {
			if err := conn.WriteJSON(map[string]interface{}{
				"type":    "snapshot",
				"entries": snapshotResponse(snapshot),
			}); err != nil {
				return
			}
		}
		if err := conn.WriteJSON(map[string]string{"type": "done"}); err != nil {
			return
		}
	}
}
