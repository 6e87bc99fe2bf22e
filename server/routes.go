package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salespilot/salespilot/models"
	"github.com/salespilot/salespilot/sessions"
	"github.com/salespilot/salespilot/stores"
)

// NewRouter builds the HTTP surface: chat over SSE and WebSocket, history,
// reset, and run traces.
func NewRouter(m *Manager) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(chatPage))
	})
	router.Static("/images", "./images")

	r := router.Group("/api/v1")

	// Chat endpoint: streams one SSE frame per transcript snapshot.
	r.POST("/chat/:sessionID", func(c *gin.Context) {
		sessionID := c.Param("sessionID")

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		session := m.GetOrCreate(sessionID)
		writer := &GinSSEWriter{Context: c}

		for snapshot := range session.Submit(c.Request.Context(), req.Message) {
			if err := writer.WriteSnapshot(snapshot); err != nil {
				return
			}
		}
		writer.WriteDone()
	})

	// Mint a fresh session for clients that do not bring their own ID.
	r.POST("/sessions", func(c *gin.Context) {
		sessionID := uuid.NewString()
		m.GetOrCreate(sessionID)
		if m.Store != nil {
			if err := m.Store.CreateSession(sessionID, ""); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
	})

	r.GET("/sessions", func(c *gin.Context) {
		if m.Store == nil {
			c.JSON(http.StatusOK, gin.H{"sessions": []stores.SessionInfo{}})
			return
		}
		infos, err := m.Store.ListSessions()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": infos})
	})

	r.GET("/chat/history/:sessionID", func(c *gin.Context) {
		sessionID := c.Param("sessionID")

		session := m.GetOrCreate(sessionID)
		history, err := session.GetChatHistory()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"history": history})
	})

	r.POST("/chat/reset/:sessionID", func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		if err := m.Reset(sessionID); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "reset"})
	})

	r.GET("/traces/:sessionID", func(c *gin.Context) {
		if m.Traces == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "trace store not configured"})
			return
		}
		traces, err := m.Traces.GetTracesBySession(c.Param("sessionID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"traces": traces})
	})

	r.DELETE("/traces/:sessionID", func(c *gin.Context) {
		if m.Traces == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "trace store not configured"})
			return
		}
		if err := m.Traces.DeleteTracesBySession(c.Param("sessionID")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	})

	r.GET("/ws/chat/:sessionID", func(c *gin.Context) {
		ServeWS(c, m)
	})

	return router
}

// snapshotResponse converts a transcript snapshot to the wire shape.
func snapshotResponse(snapshot sessions.Snapshot) []models.ChatEntryResponse {
	out := make([]models.ChatEntryResponse, 0, len(snapshot))
	for _, entry := range snapshot {
		out = append(out, models.ChatEntryResponse{
			Role:     entry.Role,
			Content:  entry.Content,
			Metadata: entry.Metadata,
		})
	}
	return out
}
