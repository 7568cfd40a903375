package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fellgate/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
//
// By default Emit writes synchronously: the use case blocks until the event is
// persisted or the write fails. WithAsyncBuffer switches to a buffered channel
// drained by a background goroutine for high-volume sinks; in that mode a full
// buffer fails the Emit rather than blocking the request.
type Publisher struct {
	store  Store
	logger *slog.Logger

	inbox chan Event
	done  chan struct{}

	mu      sync.RWMutex
	stopped bool
	closed  sync.Once
}

type PublisherOption func(*Publisher)

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithAsyncBuffer enables asynchronous emission with the given buffer size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store: store,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit publishes one audit event. Timestamp and CorrelationID are filled from
// the request context when unset. Emit never retries; a failed write is the
// caller's failure to surface.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.CorrelationID == "" {
		event.CorrelationID = requestcontext.CorrelationID(ctx)
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	// The read lock holds Close out of close(inbox) while a send is in
	// flight, so an Emit racing shutdown fails instead of panicking.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return fmt.Errorf("audit publisher closed, dropping event %s", event.Name)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		return fmt.Errorf("audit buffer full, dropping event %s", event.Name)
	}
}

// List returns events recorded against one source entity.
func (p *Publisher) List(ctx context.Context, sourceEntityID string) ([]Event, error) {
	return p.store.ListBySource(ctx, sourceEntityID)
}

// Close stops the background drain, flushing buffered events first.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		if p.inbox != nil {
			p.mu.Lock()
			p.stopped = true
			p.mu.Unlock()
			close(p.inbox)
			<-p.done
		}
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"event", string(event.Name),
				"source_entity_id", event.SourceEntityID,
			)
		}
	}
}
