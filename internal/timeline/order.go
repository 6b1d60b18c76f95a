// Package timeline rebuilds a causally ordered conversation out of the
// unordered key-value snapshot the log port hands back. The storage
// layer gives no ordering guarantee at all, so every rebuild is a full
// resort; the result only depends on the snapshot contents, which makes
// the rebuild idempotent.
package timeline

import (
	"sort"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
)

// Order normalizes and sorts a raw record snapshot into messages.
//
// Records missing their own key inherit the storage slot key (legacy
// agent builds wrote records without one). The sort key is the command
// timestamp, falling back to the legacy single timestamp field, else
// zero so undatable records sort first. Ties keep the slot-key walk
// order, which is deterministic because slot keys are visited sorted.
//
// Records that cannot be normalized are dropped, never fatal; the
// returned count makes the drops observable to the caller.
func Order(records map[string]models.Record) ([]models.Message, int) {
	slots := make([]string, 0, len(records))
	for slot := range records {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	msgs := make([]models.Message, 0, len(records))
	dropped := 0
	for _, slot := range slots {
		msg, ok := normalize(slot, records[slot])
		if !ok {
			dropped++
			continue
		}
		msgs = append(msgs, msg)
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].IssuedAt < msgs[j].IssuedAt
	})
	return msgs, dropped
}

// normalize converts one stored record into a message, self-healing
// the recoverable defects and rejecting the rest.
func normalize(slot string, rec models.Record) (models.Message, bool) {
	if rec.Command == "" {
		return models.Message{}, false
	}

	key := rec.Key
	if key == "" {
		key = slot
	}

	issuedAt := rec.CommandTimestamp
	if issuedAt == 0 {
		issuedAt = rec.Timestamp
	}

	msg := models.Message{
		ID:       key,
		Command:  rec.Command,
		IssuedAt: issuedAt,
		Status:   rec.Status,
	}
	if msg.Status == "" {
		msg.Status = models.StatusPending
	}

	// response and respondedAt are paired on every emitted message.
	// A response whose timestamp was lost inherits the issue time.
	if rec.Response != nil {
		msg.Response = rec.Response
		if rec.ResponseTimestamp != nil {
			msg.RespondedAt = rec.ResponseTimestamp
		} else {
			at := issuedAt
			msg.RespondedAt = &at
		}
	}

	return msg, true
}
