package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntryModel is the persistence model for accounting ledger entries
type JournalEntryModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryNumber  string    `gorm:"type:varchar(50);not null"`
	SourceType   string    `gorm:"type:varchar(50);not null;index:idx_journal_source"`
	SourceID     uuid.UUID `gorm:"type:uuid;not null;index:idx_journal_source"`
	Status       string    `gorm:"type:varchar(20);not null;default:'posted'"`
	Description  string    `gorm:"type:text"`
	CancelledAt  *time.Time
	CancelledBy  *uuid.UUID `gorm:"type:uuid"`
	CancelReason string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}
