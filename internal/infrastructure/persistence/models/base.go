package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lacaja/backend/internal/domain/shared"
)

// StoreAggregateModel provides the common columns of store-scoped aggregates
type StoreAggregateModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	StoreID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// ToDomainRoot rebuilds the embedded aggregate root
func (m *StoreAggregateModel) ToDomainRoot() shared.StoreAggregateRoot {
	return shared.StoreAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
		},
		StoreID:   m.StoreID,
		CreatedBy: m.CreatedBy,
	}
}

// FromDomainRoot copies the aggregate root columns into the model
func (m *StoreAggregateModel) FromDomainRoot(root shared.StoreAggregateRoot) {
	m.ID = root.ID
	m.StoreID = root.StoreID
	m.CreatedBy = root.CreatedBy
	m.CreatedAt = root.CreatedAt
	m.UpdatedAt = root.UpdatedAt
}
