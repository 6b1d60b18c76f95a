package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/services"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The console UI is served from the same origin; non-browser
		// clients send no Origin header at all.
		return true
	},
}

// TimelineHandler serves the conversation timeline, both as a one-shot
// snapshot and as a websocket stream of projector emissions
type TimelineHandler struct {
	projector ProjectorInterface
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(projector ProjectorInterface) *TimelineHandler {
	return &TimelineHandler{
		projector: projector,
	}
}

// Snapshot handles GET /api/timeline
// Returns the current ordered, classified conversation
func (h *TimelineHandler) Snapshot(c *gin.Context) {
	entries, err := h.projector.Timeline(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build timeline", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to read timeline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

// Stream handles GET /api/timeline/stream
// Upgrades to a websocket and pushes the full timeline on every change
func (h *TimelineHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Debug("WebSocket close", zap.Error(closeErr))
		}
	}()

	// Observer callbacks arrive on the projector's goroutine; the
	// buffered channel decouples them from the websocket write pump
	// and keeps only the newest snapshot when the client is slow.
	updates := make(chan []services.Entry, 1)
	remove := h.projector.AddObserver(func(entries []services.Entry) {
		for {
			select {
			case updates <- entries:
				return
			default:
			}
			// Full: drop the stale snapshot and try again.
			select {
			case <-updates:
			default:
			}
		}
	})
	defer remove()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Discard client frames; the stream is one-way. Read errors
		// mean the client went away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case entries := <-updates:
			if err := conn.WriteJSON(gin.H{"entries": entries}); err != nil {
				logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		}
	}
}
