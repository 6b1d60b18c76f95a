package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/handlers"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/middleware"
)

// Router wires the console's HTTP surface. It owns no business logic;
// everything is delegated to the injected handlers.
type Router struct {
	engine          *gin.Engine
	commandHandler  *handlers.CommandHandler
	agentHandler    *handlers.AgentHandler
	timelineHandler *handlers.TimelineHandler
}

func NewRouter(
	commandHandler *handlers.CommandHandler,
	agentHandler *handlers.AgentHandler,
	timelineHandler *handlers.TimelineHandler,
) *Router {
	if commandHandler == nil || agentHandler == nil || timelineHandler == nil {
		panic("handlers cannot be nil")
	}

	r := &Router{
		engine:          gin.New(),
		commandHandler:  commandHandler,
		agentHandler:    agentHandler,
		timelineHandler: timelineHandler,
	}

	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestLogger())
	r.engine.Use(middleware.SecurityHeadersMiddleware())
	r.engine.Use(middleware.CORSMiddleware())

	r.engine.GET("/health", r.handleHealth)
	r.engine.NoRoute(r.handleNotFound)

	commandGroup := r.engine.Group("/api/commands")
	{
		commandGroup.GET("", r.commandHandler.Commands)
		commandGroup.POST("/dispatch", r.commandHandler.Dispatch)
		commandGroup.Handle(http.MethodGet, "/dispatch", r.handleMethodNotAllowed)
		commandGroup.Handle(http.MethodPut, "/dispatch", r.handleMethodNotAllowed)
		commandGroup.Handle(http.MethodDelete, "/dispatch", r.handleMethodNotAllowed)
	}

	timelineGroup := r.engine.Group("/api/timeline")
	{
		timelineGroup.GET("", r.timelineHandler.Snapshot)
		timelineGroup.GET("/stream", r.timelineHandler.Stream)
	}

	agentGroup := r.engine.Group("/api/agent")
	{
		agentGroup.POST("/response", r.agentHandler.SubmitResponse)
		agentGroup.POST("/ack", r.agentHandler.Acknowledge)
		agentGroup.Handle(http.MethodGet, "/response", r.handleMethodNotAllowed)
		agentGroup.Handle(http.MethodGet, "/ack", r.handleMethodNotAllowed)
	}

	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (r *Router) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func (r *Router) handleMethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
