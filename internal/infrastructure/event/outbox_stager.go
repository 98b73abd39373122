package event

import (
	"context"

	"gorm.io/gorm"

	"github.com/lacaja/backend/internal/domain/shared"
)

// OutboxStager writes domain events to the outbox table on a given GORM
// handle. Bound to a transaction, it makes event staging atomic with the
// aggregate changes of that transaction.
type OutboxStager struct {
	serializer *EventSerializer
	db         *gorm.DB
}

// NewOutboxStager creates a stager bound to the given GORM handle
func NewOutboxStager(serializer *EventSerializer, db *gorm.DB) *OutboxStager {
	return &OutboxStager{serializer: serializer, db: db}
}

// Stage serializes the events and persists them as pending outbox entries
func (s *OutboxStager) Stage(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := s.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event.StoreID(), event, payload))
	}

	return NewGormOutboxRepository(s.db).Save(ctx, entries...)
}
