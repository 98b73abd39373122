package sales

import (
	"github.com/google/uuid"

	"github.com/lacaja/backend/internal/domain/shared"
)

// InvoiceType distinguishes fiscal documents
type InvoiceType string

const (
	InvoiceTypeInvoice    InvoiceType = "invoice"
	InvoiceTypeCreditNote InvoiceType = "credit_note"
)

// InvoiceStatus represents the fiscal state of a document
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// FiscalInvoice is a tax document tied to a sale. An issued invoice can
// only be nullified by an issued credit note, never deleted.
type FiscalInvoice struct {
	shared.StoreAggregateRoot
	SaleID        uuid.UUID
	InvoiceNumber string
	Type          InvoiceType
	Status        InvoiceStatus
}

// IsIssued returns true for issued documents
func (i *FiscalInvoice) IsIssued() bool {
	return i.Status == InvoiceStatusIssued
}

// HasIssuedInvoice reports whether the list contains an issued invoice
// of type "invoice".
func HasIssuedInvoice(invoices []FiscalInvoice) bool {
	for idx := range invoices {
		if invoices[idx].Type == InvoiceTypeInvoice && invoices[idx].IsIssued() {
			return true
		}
	}
	return false
}

// HasIssuedCreditNote reports whether the list contains an issued credit note
func HasIssuedCreditNote(invoices []FiscalInvoice) bool {
	for idx := range invoices {
		if invoices[idx].Type == InvoiceTypeCreditNote && invoices[idx].IsIssued() {
			return true
		}
	}
	return false
}
