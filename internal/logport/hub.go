package logport

import (
	"sync"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
)

// hub fans change notifications out to the subscribers of a channel.
// Shared by the sqlite and memory ports, which both see every mutation
// in-process.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]OnChange
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[int]OnChange)}
}

// subscribe registers fn for the channel and returns an idempotent
// removal function.
func (h *hub) subscribe(channel string, fn OnChange) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[channel] == nil {
		h.subs[channel] = make(map[int]OnChange)
	}
	id := h.nextID
	h.nextID++
	h.subs[channel][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[channel], id)
		})
	}
}

// broadcast delivers the snapshot to every subscriber of the channel.
// Delivery is synchronous: the mutation that triggered it has already
// been persisted when broadcast runs.
func (h *hub) broadcast(channel string, snapshot map[string]models.Record) {
	h.mu.Lock()
	fns := make([]OnChange, 0, len(h.subs[channel]))
	for _, fn := range h.subs[channel] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
