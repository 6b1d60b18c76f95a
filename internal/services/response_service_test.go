package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/logport"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
)

func TestSubmitResponsePairsTimestamp(t *testing.T) {
	port := &fakePort{
		snapshotFunc: func(string) (map[string]models.Record, error) {
			return map[string]models.Record{
				"k1": {
					Key:              "k1",
					Command:          models.RequestLocation,
					CommandTimestamp: 100,
					Status:           models.StatusSubmitted,
				},
			}, nil
		},
	}
	service := NewResponseService(port, "device-1")
	service.now = func() int64 { return 200 }

	err := service.SubmitResponse(context.Background(), "k1", "https://maps?q=1.0,2.0")
	require.NoError(t, err)

	require.Len(t, port.writes, 1)
	written := port.writes[0]
	require.NotNil(t, written.Response)
	assert.Equal(t, "https://maps?q=1.0,2.0", *written.Response)
	require.NotNil(t, written.ResponseTimestamp)
	assert.Equal(t, int64(200), *written.ResponseTimestamp)
	// Status untouched by a response write.
	assert.Equal(t, models.StatusSubmitted, written.Status)
}

func TestSubmitResponseUnknownKey(t *testing.T) {
	port := &fakePort{}
	service := NewResponseService(port, "device-1")

	err := service.SubmitResponse(context.Background(), "ghost", "payload")
	assert.ErrorIs(t, err, logport.ErrNotFound)
	assert.Empty(t, port.writes)

	err = service.SubmitResponse(context.Background(), "", "payload")
	assert.ErrorIs(t, err, logport.ErrNotFound)
}

func TestAcknowledgeAdvancesStatus(t *testing.T) {
	port := &fakePort{
		snapshotFunc: func(string) (map[string]models.Record, error) {
			return map[string]models.Record{
				"k1": {
					Key:              "k1",
					Command:          models.RequestSelfie,
					CommandTimestamp: 100,
					Status:           models.StatusSubmitted,
				},
			}, nil
		},
	}
	service := NewResponseService(port, "device-1")

	require.NoError(t, service.Acknowledge(context.Background(), "k1"))
	require.Len(t, port.writes, 1)
	assert.Equal(t, models.StatusAcknowledged, port.writes[0].Status)
}

func TestAcknowledgeIsIdempotent(t *testing.T) {
	port := &fakePort{
		snapshotFunc: func(string) (map[string]models.Record, error) {
			return map[string]models.Record{
				"k1": {
					Key:              "k1",
					Command:          models.RequestSelfie,
					CommandTimestamp: 100,
					Status:           models.StatusAcknowledged,
				},
			}, nil
		},
	}
	service := NewResponseService(port, "device-1")

	// Re-sent ack: accepted without a second write.
	require.NoError(t, service.Acknowledge(context.Background(), "k1"))
	assert.Empty(t, port.writes)
}

func TestStatusNeverRegresses(t *testing.T) {
	// A full lifecycle against the in-memory port: every stored status
	// must be a forward step of the previous one.
	port := logport.NewMemoryPort()
	commands := NewCommandService(port, "device-1")
	responses := NewResponseService(port, "device-1")

	var seen []models.DeliveryStatus
	_, err := port.Subscribe("device-1", func(snap map[string]models.Record) {
		for _, rec := range snap {
			seen = append(seen, rec.Status)
		}
	})
	require.NoError(t, err)

	key, err := commands.Dispatch(context.Background(), models.RequestLocation)
	require.NoError(t, err)
	require.NoError(t, responses.Acknowledge(context.Background(), key))
	require.NoError(t, responses.SubmitResponse(context.Background(), key, "done"))

	require.NotEmpty(t, seen)
	prev := models.StatusPending
	for _, status := range seen {
		assert.True(t, prev.CanTransition(status),
			"status regressed from %s to %s", prev, status)
		prev = status
	}
	assert.Equal(t, models.StatusAcknowledged, prev)
}
