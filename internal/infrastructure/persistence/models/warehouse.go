package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseModel is the persistence model for warehouses
type WarehouseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	IsDefault bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// WarehouseStockModel is the persistence model for per-warehouse stock
// levels. One row per (warehouse, product, variant).
type WarehouseStockModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_slot,unique"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_slot,unique"`
	VariantID   *uuid.UUID      `gorm:"type:uuid;index:idx_stock_slot,unique"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WarehouseStockModel) TableName() string {
	return "warehouse_stocks"
}
