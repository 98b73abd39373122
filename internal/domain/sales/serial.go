package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lacaja/backend/internal/domain/shared"
)

// SerialStatus represents the lifecycle state of a serialized unit
type SerialStatus string

const (
	SerialStatusAvailable SerialStatus = "available"
	SerialStatusSold      SerialStatus = "sold"
	SerialStatusReturned  SerialStatus = "returned"
	SerialStatusDamaged   SerialStatus = "damaged"
)

// IsValid checks if the status is a valid SerialStatus
func (s SerialStatus) IsValid() bool {
	switch s {
	case SerialStatusAvailable, SerialStatusSold, SerialStatusReturned, SerialStatusDamaged:
		return true
	}
	return false
}

// ProductSerial is a uniquely numbered unit of a serialized product.
// A serial is linked to at most one currently-sold sale item; releasing it
// clears the linkage so the unit can be resold later.
type ProductSerial struct {
	shared.BaseEntity
	StoreID      uuid.UUID
	ProductID    uuid.UUID
	SerialNumber string
	Status       SerialStatus
	SaleID       *uuid.UUID
	SaleItemID   *uuid.UUID
	SoldAt       *time.Time
}

// IsSold returns true while the serial is attached to a sale item
func (s *ProductSerial) IsSold() bool {
	return s.Status == SerialStatusSold
}

// MarkSold attaches the serial to a sale item
func (s *ProductSerial) MarkSold(saleID, saleItemID uuid.UUID) error {
	if s.Status != SerialStatusAvailable && s.Status != SerialStatusReturned {
		return shared.NewDomainError("SERIAL_NOT_AVAILABLE",
			fmt.Sprintf("Serial %s cannot be sold in %s status", s.SerialNumber, s.Status))
	}
	now := time.Now()
	s.Status = SerialStatusSold
	s.SaleID = &saleID
	s.SaleItemID = &saleItemID
	s.SoldAt = &now
	s.UpdatedAt = now
	return nil
}

// Release transitions a sold serial back to returned, clearing the sale
// linkage and sold timestamp.
func (s *ProductSerial) Release() error {
	if s.Status != SerialStatusSold {
		return shared.NewDomainError("SERIAL_NOT_SOLD",
			fmt.Sprintf("Serial %s is not sold", s.SerialNumber))
	}
	s.Status = SerialStatusReturned
	s.SaleID = nil
	s.SaleItemID = nil
	s.SoldAt = nil
	s.Touch()
	return nil
}

// MarkDamaged flags the unit as damaged; damaged serials never re-enter stock
func (s *ProductSerial) MarkDamaged() error {
	if s.Status == SerialStatusDamaged {
		return shared.NewDomainError("SERIAL_DAMAGED", "Serial is already damaged")
	}
	s.Status = SerialStatusDamaged
	s.SaleID = nil
	s.SaleItemID = nil
	s.SoldAt = nil
	s.Touch()
	return nil
}

// BelongsToSaleItem reports whether the serial is currently linked to the
// given sale item.
func (s *ProductSerial) BelongsToSaleItem(saleItemID uuid.UUID) bool {
	return s.SaleItemID != nil && *s.SaleItemID == saleItemID
}
