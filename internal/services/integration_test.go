package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/content"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/logport"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
)

// Full command lifecycle: operator dispatches, the agent replies with
// a map link, the projector emits a classified single point.
func TestLocationRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	port := logport.NewMemoryPort()

	commands := NewCommandService(port, "device-1")
	responses := NewResponseService(port, "device-1")
	projector := NewProjector(port, "device-1", content.NewClassifier(attachmentHost))
	require.NoError(t, projector.Start())
	defer projector.Close()

	var last []Entry
	remove := projector.AddObserver(func(entries []Entry) { last = entries })
	defer remove()

	key, err := commands.Dispatch(ctx, models.RequestLocation)
	require.NoError(t, err)

	// Dispatch leaves exactly one record, already Submitted.
	require.Len(t, last, 1)
	assert.Equal(t, key, last[0].Message.ID)
	assert.Equal(t, models.StatusSubmitted, last[0].Message.Status)
	assert.Nil(t, last[0].Content)

	// Remote agent confirms receipt and posts the location.
	require.NoError(t, responses.Acknowledge(ctx, key))
	require.NoError(t, responses.SubmitResponse(ctx, key,
		"https://www.google.com/maps?q=31.03,74.26"))

	require.Len(t, last, 1)
	msg := last[0].Message
	assert.Equal(t, models.StatusAcknowledged, msg.Status)
	require.True(t, msg.HasResponse())

	desc := last[0].Content
	require.NotNil(t, desc)
	require.Equal(t, content.KindSinglePoint, desc.Kind)
	assert.Equal(t, "31.03", desc.Point.Lat)
	assert.Equal(t, "74.26", desc.Point.Lng)
}

// A second dispatch lands after the first in the projected timeline
// even though the snapshot itself is unordered.
func TestTimelineKeepsDispatchOrder(t *testing.T) {
	ctx := context.Background()
	port := logport.NewMemoryPort()

	commands := NewCommandService(port, "device-1")
	var tick int64
	commands.now = func() int64 { tick++; return tick }

	projector := NewProjector(port, "device-1", content.NewClassifier(attachmentHost))
	require.NoError(t, projector.Start())
	defer projector.Close()

	first, err := commands.Dispatch(ctx, models.RequestLocation)
	require.NoError(t, err)
	second, err := commands.Dispatch(ctx, models.RequestSelfie)
	require.NoError(t, err)

	entries, err := projector.Timeline(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0].Message.ID)
	assert.Equal(t, second, entries[1].Message.ID)
}
