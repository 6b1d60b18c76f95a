package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/services"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

// CommandHandler handles operator command dispatch requests
type CommandHandler struct {
	commandService CommandServiceInterface
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(commandService CommandServiceInterface) *CommandHandler {
	return &CommandHandler{
		commandService: commandService,
	}
}

// DispatchRequest is the body of POST /api/commands/dispatch
type DispatchRequest struct {
	Command models.Command `json:"command"`
}

// Dispatch handles command dispatch (POST /api/commands/dispatch)
// Issues the command to the bound device and returns the new record key
func (h *CommandHandler) Dispatch(c *gin.Context) {
	logger.Info("Command dispatch endpoint called")

	if c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Unsupported Media Type"})
		return
	}

	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid dispatch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	key, err := h.commandService.Dispatch(c.Request.Context(), req.Command)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCommand) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown command"})
			return
		}
		logger.Error("Failed to dispatch command",
			zap.String("command", string(req.Command)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to submit command"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":    key,
		"status": models.StatusSubmitted,
	})
}

// Commands lists the closed command set (GET /api/commands)
// The console UI builds its action menu from this
func (h *CommandHandler) Commands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": models.Commands})
}
