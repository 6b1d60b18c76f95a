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

// ErrInvalidCommand is returned when dispatch is asked to send an
// empty or unknown command. Nothing is written in that case.
var ErrInvalidCommand = errors.New("invalid command")

// CommandService dispatches commands to the remote device through the
// log port. The channel is bound at construction: all writes of this
// console go to one device regardless of who is operating it.
type CommandService struct {
	port    logport.Port
	channel string
	now     func() int64
}

// NewCommandService creates a command service bound to channel.
func NewCommandService(port logport.Port, channel string) *CommandService {
	return &CommandService{
		port:    port,
		channel: channel,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Dispatch issues cmd to the remote device and returns the key of the
// created record.
//
// The record is appended with status Pending, then rewritten to
// Submitted. The two writes are sequential, not atomic: a failure in
// between leaves the record visibly Pending, which the operator sees
// as an unconfirmed command. Dispatch never retries; transport errors
// surface to the caller.
func (s *CommandService) Dispatch(ctx context.Context, cmd models.Command) (string, error) {
	if cmd == "" || !cmd.Valid() {
		return "", ErrInvalidCommand
	}

	rec := models.Record{
		Command:          cmd,
		CommandTimestamp: s.now(),
		Status:           models.StatusPending,
	}

	key, err := s.port.Append(ctx, s.channel, rec)
	if err != nil {
		return "", fmt.Errorf("failed to submit command: %w", err)
	}

	rec.Key = key
	rec.Status = models.StatusSubmitted
	if err := s.port.Write(ctx, s.channel, key, rec); err != nil {
		// The Pending record stays behind; see the note above.
		return "", fmt.Errorf("failed to confirm command submission: %w", err)
	}

	logger.Info("Command dispatched",
		zap.String("channel", s.channel),
		zap.String("key", key),
		zap.String("command", string(cmd)),
	)
	return key, nil
}
