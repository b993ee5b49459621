package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kycflow/pkg/domain"
	audit "kycflow/pkg/platform/audit"
	"kycflow/pkg/platform/audit/store/memory"
)

func TestWorker_DrainsClosedInbox(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 3)
	entityID := id.NewEntityID()
	for range 3 {
		inbox <- audit.Event{EntityID: entityID, Action: string(audit.EventStatusChanged)}
	}
	close(inbox)

	err := NewWorker(store, inbox, nil).Run(context.Background())
	require.NoError(t, err)

	events, err := store.ListByEntity(context.Background(), entityID)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestWorker_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWorker(memory.NewInMemoryStore(), make(chan audit.Event), nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
