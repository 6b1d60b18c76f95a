package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/NaveedAshraf1/admin-phone-secure/internal/content"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/logport"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/models"
	"github.com/NaveedAshraf1/admin-phone-secure/internal/timeline"
	"github.com/NaveedAshraf1/admin-phone-secure/pkg/logger"
)

// Entry pairs a message with the classification of its response.
// Content is nil until the agent has replied.
type Entry struct {
	Message models.Message      `json:"message"`
	Content *content.Descriptor `json:"content,omitempty"`
}

// Observer receives the full ordered timeline on every change. Each
// call is an authoritative replacement of the previous one.
type Observer func(entries []Entry)

// Projector keeps a live subscription on the fixed channel and turns
// every raw snapshot into an ordered, classified timeline for its
// observers. It holds no state of its own between notifications; the
// log port is always the source of truth.
type Projector struct {
	port       logport.Port
	channel    string
	classifier *content.Classifier

	mu        sync.Mutex
	observers map[int]Observer
	nextID    int
	latest    []Entry
	closed    bool

	unsubscribe func()
	closeOnce   sync.Once
}

func NewProjector(port logport.Port, channel string, classifier *content.Classifier) *Projector {
	return &Projector{
		port:       port,
		channel:    channel,
		classifier: classifier,
		observers:  make(map[int]Observer),
	}
}

// Start opens the log port subscription. The first emission happens
// synchronously inside Start because the port delivers the current
// snapshot on subscribe.
func (p *Projector) Start() error {
	unsubscribe, err := p.port.Subscribe(p.channel, p.onChange)
	if err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	p.mu.Lock()
	p.unsubscribe = unsubscribe
	closed := p.closed
	p.mu.Unlock()

	// Close raced Start: drop the subscription we just opened.
	if closed {
		unsubscribe()
	}
	return nil
}

// Close tears the subscription down. Safe to call repeatedly and at
// any time, including from inside an observer callback; notifications
// arriving after Close are discarded.
func (p *Projector) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		unsubscribe := p.unsubscribe
		p.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

// AddObserver registers fn and immediately delivers the latest
// projection so a late observer does not wait for the next mutation.
// The returned function removes the observer.
func (p *Projector) AddObserver(fn Observer) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	latest := p.latest
	p.mu.Unlock()

	if latest != nil {
		fn(latest)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.observers, id)
		})
	}
}

// Timeline builds the current projection from a fresh snapshot read,
// bypassing the subscription. Used by the synchronous query endpoint.
func (p *Projector) Timeline(ctx context.Context) ([]Entry, error) {
	snapshot, err := p.port.Snapshot(ctx, p.channel)
	if err != nil {
		return nil, fmt.Errorf("failed to read channel: %w", err)
	}
	return p.project(snapshot), nil
}

func (p *Projector) onChange(snapshot map[string]models.Record) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	entries := p.project(snapshot)
	p.latest = entries
	observers := make([]Observer, 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	p.mu.Unlock()

	for _, fn := range observers {
		fn(entries)
	}
}

// project orders the snapshot and classifies every present response.
// An empty or nil snapshot projects to an empty timeline.
func (p *Projector) project(snapshot map[string]models.Record) []Entry {
	msgs, dropped := timeline.Order(snapshot)
	if dropped > 0 {
		logger.Warn("Dropped malformed records from projection",
			zap.String("channel", p.channel),
			zap.Int("dropped", dropped),
		)
	}

	entries := make([]Entry, 0, len(msgs))
	for _, msg := range msgs {
		entry := Entry{Message: msg}
		if msg.Response != nil {
			desc := p.classifier.Classify(*msg.Response)
			entry.Content = &desc
		}
		entries = append(entries, entry)
	}
	return entries
}
