package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/logport"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
)

// fakePort records the write sequence a service produces, in the style
// of a func-field mock: unset funcs fall back to permissive defaults.
type fakePort struct {
	appendFunc   func(channel string, rec models.Record) (string, error)
	writeFunc    func(channel, key string, rec models.Record) error
	snapshotFunc func(channel string) (map[string]models.Record, error)

	appends []models.Record
	writes  []models.Record
}

func (f *fakePort) Append(_ context.Context, channel string, rec models.Record) (string, error) {
	f.appends = append(f.appends, rec)
	if f.appendFunc != nil {
		return f.appendFunc(channel, rec)
	}
	return "generated-key", nil
}

func (f *fakePort) Write(_ context.Context, channel, key string, rec models.Record) error {
	f.writes = append(f.writes, rec)
	if f.writeFunc != nil {
		return f.writeFunc(channel, key, rec)
	}
	return nil
}

func (f *fakePort) Snapshot(_ context.Context, channel string) (map[string]models.Record, error) {
	if f.snapshotFunc != nil {
		return f.snapshotFunc(channel)
	}
	return map[string]models.Record{}, nil
}

func (f *fakePort) Subscribe(channel string, onChange logport.OnChange) (func(), error) {
	onChange(map[string]models.Record{})
	return func() {}, nil
}

func (f *fakePort) Close() error { return nil }

func TestDispatchRejectsInvalidCommand(t *testing.T) {
	port := &fakePort{}
	service := NewCommandService(port, "device-1")

	tests := []struct {
		name string
		cmd  models.Command
	}{
		{"empty command", models.Command("")},
		{"unknown command", models.Command("FORMAT_SDCARD")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Dispatch(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, ErrInvalidCommand)
		})
	}

	// Rejection is a local no-op: nothing reached the port.
	assert.Empty(t, port.appends)
	assert.Empty(t, port.writes)
}

func TestDispatchWritesPendingThenSubmitted(t *testing.T) {
	port := &fakePort{}
	service := NewCommandService(port, "device-1")
	service.now = func() int64 { return 1700000000000 }

	key, err := service.Dispatch(context.Background(), models.RequestLocation)
	require.NoError(t, err)
	assert.Equal(t, "generated-key", key)

	// Exactly one append and one rewrite, in that order.
	require.Len(t, port.appends, 1)
	require.Len(t, port.writes, 1)

	appended := port.appends[0]
	assert.Equal(t, models.RequestLocation, appended.Command)
	assert.Equal(t, models.StatusPending, appended.Status)
	assert.Equal(t, int64(1700000000000), appended.CommandTimestamp)
	assert.Nil(t, appended.Response)

	rewritten := port.writes[0]
	assert.Equal(t, "generated-key", rewritten.Key)
	assert.Equal(t, models.StatusSubmitted, rewritten.Status)
	assert.Equal(t, appended.CommandTimestamp, rewritten.CommandTimestamp)
}

func TestDispatchPropagatesAppendFailure(t *testing.T) {
	port := &fakePort{
		appendFunc: func(string, models.Record) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	service := NewCommandService(port, "device-1")

	_, err := service.Dispatch(context.Background(), models.RequestSelfie)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCommand)
	assert.Empty(t, port.writes, "no status rewrite after a failed append")
}

func TestDispatchFailedConfirmLeavesPending(t *testing.T) {
	port := &fakePort{
		writeFunc: func(string, string, models.Record) error {
			return errors.New("connection reset")
		},
	}
	service := NewCommandService(port, "device-1")

	_, err := service.Dispatch(context.Background(), models.RequestVoiceNote)
	require.Error(t, err)

	// The Pending append happened and is never rolled back or retried.
	require.Len(t, port.appends, 1)
	assert.Equal(t, models.StatusPending, port.appends[0].Status)
	require.Len(t, port.writes, 1)
}
