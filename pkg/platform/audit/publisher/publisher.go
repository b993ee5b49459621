// Package publisher is the entry point domain services use to record audit
// events.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "kycflow/pkg/domain"
	audit "kycflow/pkg/platform/audit"
	"kycflow/pkg/platform/audit/worker"
)

// ErrBufferFull is returned by Emit when the async buffer cannot take an event.
var ErrBufferFull = errors.New("audit buffer full")

type Option func(*Publisher)

// WithAsyncBuffer hands events to a background worker through a buffer of
// size n instead of writing them synchronously.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Publisher stamps events and writes them to a Store.
type Publisher struct {
	store      audit.Store
	logger     *slog.Logger
	bufferSize int

	mu     sync.RWMutex
	closed bool
	inbox  chan audit.Event
	done   chan struct{}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(store, p.inbox, p.logger)
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. Missing timestamps and categories are filled in.
// In async mode Emit never blocks: a full buffer returns ErrBufferFull.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"entity_id", event.EntityID.String(),
		)
		return ErrBufferFull
	}
}

// List returns an entity's recorded events.
func (p *Publisher) List(ctx context.Context, entityID id.EntityID) ([]audit.Event, error) {
	return p.store.ListByEntity(ctx, entityID)
}

// Close drains buffered events. Emit after Close writes synchronously.
func (p *Publisher) Close() {
	if p.inbox == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.inbox)
	p.mu.Unlock()
	<-p.done
}
