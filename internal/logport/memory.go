package logport

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
)

// MemoryPort is a map-backed port for tests and local development.
type MemoryPort struct {
	mu       sync.Mutex
	channels map[string]map[string]models.Record
	hub      *hub
	closed   bool
}

func NewMemoryPort() *MemoryPort {
	return &MemoryPort{
		channels: make(map[string]map[string]models.Record),
		hub:      newHub(),
	}
}

func (p *MemoryPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("port is closed")
	}
	p.closed = true
	return nil
}

func (p *MemoryPort) Append(ctx context.Context, channel string, rec models.Record) (string, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", errors.New("port is closed")
	}
	key := uuid.NewString()
	rec.Key = key
	if p.channels[channel] == nil {
		p.channels[channel] = make(map[string]models.Record)
	}
	p.channels[channel][key] = rec
	snapshot := p.copySnapshot(channel)
	p.mu.Unlock()

	p.hub.broadcast(channel, snapshot)
	return key, nil
}

func (p *MemoryPort) Write(ctx context.Context, channel, key string, rec models.Record) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New("port is closed")
	}
	if _, ok := p.channels[channel][key]; !ok {
		p.mu.Unlock()
		return ErrNotFound
	}
	if rec.Key == "" {
		rec.Key = key
	}
	p.channels[channel][key] = rec
	snapshot := p.copySnapshot(channel)
	p.mu.Unlock()

	p.hub.broadcast(channel, snapshot)
	return nil
}

// Seed stores a record at an explicit slot without notifying anyone.
// Test helper for shaping legacy or malformed channel states.
func (p *MemoryPort) Seed(channel, slot string, rec models.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channels[channel] == nil {
		p.channels[channel] = make(map[string]models.Record)
	}
	p.channels[channel][slot] = rec
}

func (p *MemoryPort) Snapshot(ctx context.Context, channel string) (map[string]models.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, errors.New("port is closed")
	}
	return p.copySnapshot(channel), nil
}

func (p *MemoryPort) Subscribe(channel string, onChange OnChange) (func(), error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("port is closed")
	}
	snapshot := p.copySnapshot(channel)
	p.mu.Unlock()

	remove := p.hub.subscribe(channel, onChange)
	onChange(snapshot)
	return remove, nil
}

// copySnapshot must be called with the mutex held.
func (p *MemoryPort) copySnapshot(channel string) map[string]models.Record {
	snapshot := make(map[string]models.Record, len(p.channels[channel]))
	for slot, rec := range p.channels[channel] {
		snapshot[slot] = rec
	}
	return snapshot
}
