package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountingEntry is one line in the dashboard ledger. It is a projection
// derived from contracts and payments, never a source of truth: the whole
// table can be rebuilt from them. DocumentNumber ("PAG-{paymentID}",
// "CTR-{contractID}", "PARC-{installmentID}") is the idempotence key that
// keeps retried synchronizations from duplicating lines.
type AccountingEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	DocumentNumber string          `gorm:"column:document_number;uniqueIndex" json:"documentNumber"`
	Description    string          `gorm:"column:description" json:"description"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(12,2)" json:"amount"`
	EntryDate      time.Time       `gorm:"column:entry_date;index" json:"entryDate"`

	ContractID    *uint `gorm:"column:contract_id;index" json:"contractId,omitempty"`
	InstallmentID *uint `gorm:"column:installment_id" json:"installmentId,omitempty"`
	StudentID     *uint `gorm:"column:student_id" json:"studentId,omitempty"`

	Confirmed   bool   `gorm:"column:confirmed;default:false" json:"confirmed"`
	ConfirmedBy string `gorm:"column:confirmed_by" json:"confirmedBy"`
}

func (AccountingEntry) TableName() string { return "accounting_entries" }
