// Package verification runs forensic document checks off the request path.
package verification

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"kycflow/internal/onboarding/models"
	id "kycflow/pkg/domain"
	"kycflow/pkg/platform/sentinel"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
)

// Job asks for one uploaded document to be checked.
type Job struct {
	EntityID     id.EntityID
	DocumentID   string
	DocumentName string
	ScanID       id.ScanID
	Suspicious   bool
	RequestID    string
}

// Handler performs the check and returns the document as it stands after
// completion. It must always resolve; the pool does not retry.
type Handler func(ctx context.Context, job Job) (*models.DocumentRequirement, error)

// Pending is the future returned by Submit.
type Pending struct {
	Job  Job
	done chan struct{}
	doc  *models.DocumentRequirement
	err  error
}

func newPending(job Job) *Pending {
	return &Pending{Job: job, done: make(chan struct{})}
}

func (p *Pending) resolve(doc *models.DocumentRequirement, err error) {
	p.doc, p.err = doc, err
	close(p.done)
}

// Done is closed once the job has resolved.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the job resolves or ctx ends.
func (p *Pending) Wait(ctx context.Context) (*models.DocumentRequirement, error) {
	select {
	case <-p.done:
		return p.doc, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pool is a fixed set of workers draining a bounded queue.
type Pool struct {
	handler   Handler
	workers   int
	queueSize int
	logger    *slog.Logger

	mu      sync.RWMutex
	stopped bool
	queue   chan *Pending
}

func New(handler Handler, opts ...Option) *Pool {
	p := &Pool{
		handler:   handler,
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.queue = make(chan *Pending, p.queueSize)
	return p
}

// Submit enqueues a job without blocking. A full queue or a stopped pool
// returns sentinel.ErrUnavailable.
func (p *Pool) Submit(job Job) (*Pending, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return nil, sentinel.ErrUnavailable
	}
	pending := newPending(job)
	select {
	case p.queue <- pending:
		return pending, nil
	default:
		return nil, sentinel.ErrUnavailable
	}
}

// Run starts the workers and blocks until ctx ends. Jobs still queued at
// shutdown resolve with sentinel.ErrUnavailable.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range p.workers {
		g.Go(func() error {
			p.work(gctx, i)
			return nil
		})
	}
	err := g.Wait()
	p.stop()
	return err
}

func (p *Pool) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		case pending := <-p.queue:
			doc, err := p.handler(ctx, pending.Job)
			if err != nil {
				p.logger.WarnContext(ctx, "document verification failed",
					"worker", worker,
					"request_id", pending.Job.RequestID,
					"entity_id", pending.Job.EntityID.String(),
					"document_id", pending.Job.DocumentID,
					"error", err,
				)
			}
			pending.resolve(doc, err)
		}
	}
}

func (p *Pool) stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	for {
		select {
		case pending := <-p.queue:
			pending.resolve(nil, sentinel.ErrUnavailable)
		default:
			return
		}
	}
}
