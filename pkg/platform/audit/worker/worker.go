package worker

import (
	"context"
	"log/slog"

	audit "kycflow/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. It stops
// when ctx ends or the inbox is closed; a closed inbox is drained first.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", event.Action,
					"entity_id", event.EntityID.String(),
					"error", err,
				)
			}
		}
	}
}
