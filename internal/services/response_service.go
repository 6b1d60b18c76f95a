package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/logport"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

// ErrStatusRegression is returned when a write would move a record's
// delivery status backwards.
var ErrStatusRegression = errors.New("delivery status cannot regress")

// ResponseService is the server-side entry point for the remote
// agent's callbacks: posting a response payload and acknowledging
// receipt of a command. It never creates records, it only amends the
// ones the dispatcher wrote.
type ResponseService struct {
	port    logport.Port
	channel string
	now     func() int64
}

func NewResponseService(port logport.Port, channel string) *ResponseService {
	return &ResponseService{
		port:    port,
		channel: channel,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// SubmitResponse attaches the agent's payload to the record at key.
// response and responseTimestamp are written together so the pairing
// invariant holds on every stored record.
func (s *ResponseService) SubmitResponse(ctx context.Context, key, payload string) error {
	rec, err := s.lookup(ctx, key)
	if err != nil {
		return err
	}

	at := s.now()
	rec.Response = &payload
	rec.ResponseTimestamp = &at

	if err := s.port.Write(ctx, s.channel, key, rec); err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}

	logger.Info("Response recorded",
		zap.String("channel", s.channel),
		zap.String("key", key),
	)
	return nil
}

// Acknowledge advances the record's status to Acknowledged. The
// transition is checked so a late or duplicated callback can never
// move the status backwards.
func (s *ResponseService) Acknowledge(ctx context.Context, key string) error {
	rec, err := s.lookup(ctx, key)
	if err != nil {
		return err
	}

	if !rec.Status.CanTransition(models.StatusAcknowledged) {
		return ErrStatusRegression
	}
	if rec.Status == models.StatusAcknowledged {
		return nil
	}

	rec.Status = models.StatusAcknowledged
	if err := s.port.Write(ctx, s.channel, key, rec); err != nil {
		return fmt.Errorf("failed to store acknowledgement: %w", err)
	}

	logger.Info("Command acknowledged",
		zap.String("channel", s.channel),
		zap.String("key", key),
	)
	return nil
}

func (s *ResponseService) lookup(ctx context.Context, key string) (models.Record, error) {
	if key == "" {
		return models.Record{}, logport.ErrNotFound
	}

	snapshot, err := s.port.Snapshot(ctx, s.channel)
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to read channel: %w", err)
	}

	for slot, rec := range snapshot {
		if rec.Key == key || slot == key {
			return rec, nil
		}
	}
	return models.Record{}, logport.ErrNotFound
}
