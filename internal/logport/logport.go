// Package logport abstracts the durable append/subscribe store the
// console and the remote agent share. The console never keeps a local
// copy of the record set as the source of truth; every projection is
// rebuilt from a fresh snapshot.
package logport

import (
	"context"
	"errors"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
)

// ErrNotFound is returned when a write names a key the channel does
// not hold.
var ErrNotFound = errors.New("logport: record not found")

// OnChange receives the full current record set of a channel, keyed by
// storage slot. Each call is an authoritative replacement, not a diff.
type OnChange func(snapshot map[string]models.Record)

// Port is the log port contract.
//
// Subscribe invokes onChange once immediately with the current
// snapshot and again after every mutation of the channel, until the
// returned unsubscribe function runs. Unsubscribing more than once is
// harmless.
type Port interface {
	// Append persists a new record under the channel and returns the
	// unique key allocated for it.
	Append(ctx context.Context, channel string, rec models.Record) (string, error)

	// Write overwrites the record stored at key.
	Write(ctx context.Context, channel, key string, rec models.Record) error

	// Snapshot returns the channel's full record set keyed by slot.
	Snapshot(ctx context.Context, channel string) (map[string]models.Record, error)

	// Subscribe registers onChange for the channel.
	Subscribe(channel string, onChange OnChange) (func(), error)

	Close() error
}
