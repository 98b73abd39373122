package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lacaja/backend/internal/domain/shared"
)

type stubEvent struct {
	shared.BaseDomainEvent
}

func newStubEvent(eventType string) *stubEvent {
	return &stubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Stub", uuid.New(), uuid.New()),
	}
}

type recordingHandler struct {
	mu       sync.Mutex
	received []shared.DomainEvent
	types    []string
	fail     error
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

type panickingHandler struct{}

func (h *panickingHandler) Handle(context.Context, shared.DomainEvent) error {
	panic("handler bug")
}

func (h *panickingHandler) EventTypes() []string { return nil }

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("routes events by type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"SaleVoided"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(),
			newStubEvent("SaleVoided"),
			newStubEvent("SaleReturnCreated"),
		)
		require.NoError(t, err)

		require.Equal(t, 1, handler.count())
		assert.Equal(t, "SaleVoided", handler.received[0].EventType())
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(),
			newStubEvent("SaleVoided"),
			newStubEvent("SaleReturnCreated"),
		)
		require.NoError(t, err)

		assert.Equal(t, 2, handler.count())
	})

	t.Run("handler error does not block other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"SaleVoided"}, fail: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"SaleVoided"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newStubEvent("SaleVoided"))
		require.NoError(t, err)

		assert.Equal(t, 1, failing.count())
		assert.Equal(t, 1, healthy.count())
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		healthy := &recordingHandler{types: []string{"SaleVoided"}}
		bus.Subscribe(&panickingHandler{}, "SaleVoided")
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newStubEvent("SaleVoided"))
		require.NoError(t, err)

		assert.Equal(t, 1, healthy.count())
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"SaleVoided"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(context.Background(), newStubEvent("SaleVoided"))
		require.NoError(t, err)

		assert.Equal(t, 0, handler.count())
	})
}
