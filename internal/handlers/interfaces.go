package handlers

import (
	"context"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/services"
)

// CommandServiceInterface defines the contract for command dispatch
// This interface is used for dependency injection and testing
type CommandServiceInterface interface {
	Dispatch(ctx context.Context, cmd models.Command) (string, error)
}

// ResponseServiceInterface defines the contract for the agent callbacks
// This interface is used for dependency injection and testing
type ResponseServiceInterface interface {
	SubmitResponse(ctx context.Context, key, payload string) error
	Acknowledge(ctx context.Context, key string) error
}

// ProjectorInterface defines the contract for timeline reads and
// streaming observers
type ProjectorInterface interface {
	Timeline(ctx context.Context) ([]services.Entry, error)
	AddObserver(fn services.Observer) func()
}
