package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/logport"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/services"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

// AgentHandler handles the remote agent's callbacks: response payloads
// and delivery acknowledgements
type AgentHandler struct {
	responseService ResponseServiceInterface
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(responseService ResponseServiceInterface) *AgentHandler {
	return &AgentHandler{
		responseService: responseService,
	}
}

// ResponseRequest is the body of POST /api/agent/response
type ResponseRequest struct {
	Key      string `json:"key"`
	Response string `json:"response"`
}

// AckRequest is the body of POST /api/agent/ack
type AckRequest struct {
	Key string `json:"key"`
}

// SubmitResponse handles agent responses (POST /api/agent/response)
func (h *AgentHandler) SubmitResponse(c *gin.Context) {
	var req ResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid agent response", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key is required"})
		return
	}

	if err := h.responseService.SubmitResponse(c.Request.Context(), req.Key, req.Response); err != nil {
		if errors.Is(err, logport.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown record key"})
			return
		}
		logger.Error("Failed to store agent response",
			zap.String("key", req.Key),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Acknowledge handles delivery acknowledgements (POST /api/agent/ack)
func (h *AgentHandler) Acknowledge(c *gin.Context) {
	var req AckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid agent ack", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key is required"})
		return
	}

	if err := h.responseService.Acknowledge(c.Request.Context(), req.Key); err != nil {
		switch {
		case errors.Is(err, logport.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown record key"})
		case errors.Is(err, services.ErrStatusRegression):
			c.JSON(http.StatusConflict, gin.H{"error": "Status cannot regress"})
		default:
			logger.Error("Failed to store acknowledgement",
				zap.String("key", req.Key),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store acknowledgement"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
