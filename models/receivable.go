package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementStatus tracks how much of a receivable has been collected.
type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "PENDING"
	SettlementPartial  SettlementStatus = "PARCIAL"
	SettlementPaid     SettlementStatus = "PAGO"
	SettlementCanceled SettlementStatus = "CANCELADO"
)

// Receivable kinds mirror the billable events a contract produces.
const (
	ReceivableEnrollment = "MATRICULA"
	ReceivableTuition    = "MENSALIDADE"
)

// Receivable is one billable charge derived from a contract, optionally tied
// to one installment through (ContractID, InstallmentSeq). It accumulates
// payments until settled. FinalAmount is always recomputed as
// max(0, original - discount + interest) when any component changes.
type Receivable struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContractID uint      `gorm:"column:contract_id;not null;index" json:"contractId"`
	Contract   *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`

	// InstallmentSeq links to the installment with the same contract and
	// sequence number. Deliberately not a foreign key: installment and
	// receivable are independent views reconciled by the synchronizer.
	InstallmentSeq *int `gorm:"column:installment_seq;index" json:"installmentSeq,omitempty"`

	Kind        string `gorm:"column:kind" json:"kind"`
	Description string `gorm:"column:description" json:"description"`

	OriginalAmount decimal.Decimal `gorm:"column:original_amount;type:numeric(12,2)" json:"originalAmount"`
	Discount       decimal.Decimal `gorm:"column:discount;type:numeric(12,2)" json:"discount"`
	Interest       decimal.Decimal `gorm:"column:interest;type:numeric(12,2)" json:"interest"`
	FinalAmount    decimal.Decimal `gorm:"column:final_amount;type:numeric(12,2)" json:"finalAmount"`

	DueDate     time.Time        `gorm:"column:due_date;index" json:"dueDate"`
	Status      SettlementStatus `gorm:"column:status;default:'PENDING';index" json:"status"`
	PaymentDate *time.Time       `gorm:"column:payment_date" json:"paymentDate,omitempty"`

	Payments []Payment `gorm:"foreignKey:ReceivableID" json:"payments,omitempty"`
}

func (Receivable) TableName() string { return "receivables" }

// RecomputeFinal refreshes FinalAmount from its components, floored at zero.
func (r *Receivable) RecomputeFinal() {
	final := r.OriginalAmount.Sub(r.Discount).Add(r.Interest)
	if final.IsNegative() {
		final = decimal.Zero
	}
	r.FinalAmount = final.Round(2)
}

// FullyDiscounted reports whether the charge was written down to nothing by
// discount alone. A zero-amount payment is only legal against such a
// receivable, and the synchronizer treats it as settled rather than unpaid.
func (r *Receivable) FullyDiscounted() bool {
	return r.Discount.IsPositive() && !r.FinalAmount.IsPositive()
}
