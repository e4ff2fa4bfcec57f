package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InstallmentStatus is the lifecycle state of one scheduled installment.
// OVERDUE is a derived state (due date passed, not fully paid); the daily
// sweep persists it for reporting but listings recompute it from dates.
type InstallmentStatus string

const (
	InstallmentPending  InstallmentStatus = "PENDING"
	InstallmentPaid     InstallmentStatus = "PAID"
	InstallmentOverdue  InstallmentStatus = "OVERDUE"
	InstallmentCanceled InstallmentStatus = "CANCELED"
)

// Installment is one scheduled slice of a contract's total, due on a
// specific date. Seq numbers are contiguous 1..N per contract; installment 1
// carries the enrollment fee on top of the monthly fee. Once PAID, face and
// due values are frozen.
type Installment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContractID uint      `gorm:"column:contract_id;not null;uniqueIndex:idx_installments_contract_seq" json:"contractId"`
	Contract   *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`

	Seq        int             `gorm:"column:seq;not null;uniqueIndex:idx_installments_contract_seq" json:"seq"`
	DueDate    time.Time       `gorm:"column:due_date;index" json:"dueDate"`
	FaceAmount decimal.Decimal `gorm:"column:face_amount;type:numeric(12,2)" json:"faceAmount"`
	PaidAmount decimal.Decimal `gorm:"column:paid_amount;type:numeric(12,2)" json:"paidAmount"`
	Interest   decimal.Decimal `gorm:"column:interest;type:numeric(12,2)" json:"interest"`
	Penalty    decimal.Decimal `gorm:"column:penalty;type:numeric(12,2)" json:"penalty"`
	Discount   decimal.Decimal `gorm:"column:discount;type:numeric(12,2)" json:"discount"`

	Status      InstallmentStatus `gorm:"column:status;default:'PENDING';index" json:"status"`
	PaymentDate *time.Time        `gorm:"column:payment_date" json:"paymentDate,omitempty"`
}

func (Installment) TableName() string { return "installments" }

// AmountDue is what settles the installment: face plus accrued interest and
// penalty, minus any installment-level discount.
func (i *Installment) AmountDue() decimal.Decimal {
	return i.FaceAmount.Add(i.Interest).Add(i.Penalty).Sub(i.Discount)
}

// OverdueAsOf reports the derived overdue state without touching Status.
// day is expected date-only (midnight).
func (i *Installment) OverdueAsOf(day time.Time) bool {
	return i.Status != InstallmentPaid && i.Status != InstallmentCanceled &&
		i.DueDate.Before(day)
}
