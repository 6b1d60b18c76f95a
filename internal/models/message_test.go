package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandValid(t *testing.T) {
	for _, cmd := range Commands {
		assert.True(t, cmd.Valid(), "expected %q to be valid", cmd)
	}

	assert.False(t, Command("").Valid())
	assert.False(t, Command("WIPE_DEVICE").Valid())
	assert.False(t, Command("request_location").Valid(), "commands are case sensitive")
}

func TestMessageHasResponse(t *testing.T) {
	resp := "hello"
	at := int64(1700000000000)

	msg := Message{ID: "k1", Command: RequestLocation, Status: StatusSubmitted}
	assert.False(t, msg.HasResponse())

	msg.Response = &resp
	msg.RespondedAt = &at
	assert.True(t, msg.HasResponse())
}

func TestMessageToRecordRoundTrip(t *testing.T) {
	resp := "ok"
	at := int64(42)
	msg := Message{
		ID:          "abc",
		Command:     RequestSelfie,
		IssuedAt:    41,
		Status:      StatusAcknowledged,
		Response:    &resp,
		RespondedAt: &at,
	}

	rec := msg.ToRecord()
	assert.Equal(t, "abc", rec.Key)
	assert.Equal(t, RequestSelfie, rec.Command)
	assert.Equal(t, int64(41), rec.CommandTimestamp)
	assert.Equal(t, StatusAcknowledged, rec.Status)
	assert.Equal(t, &resp, rec.Response)
	assert.Equal(t, &at, rec.ResponseTimestamp)
}
