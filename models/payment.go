package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records money actually received against exactly one receivable.
// Amount may be zero only when the receivable was discounted to nothing.
// ReceiptNumber is the operator-facing identifier printed on the receipt;
// the accounting projection keys on "PAG-{ID}".
type Payment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReceivableID uint        `gorm:"column:receivable_id;not null;index" json:"receivableId"`
	Receivable   *Receivable `gorm:"foreignKey:ReceivableID" json:"receivable,omitempty"`

	ReceiptNumber string          `gorm:"column:receipt_number;uniqueIndex" json:"receiptNumber"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2)" json:"amount"`
	Discount      decimal.Decimal `gorm:"column:discount;type:numeric(12,2)" json:"discount"`
	Method        string          `gorm:"column:method" json:"method"`
	PaymentDate   time.Time       `gorm:"column:payment_date;index" json:"paymentDate"`
	Comment       string          `gorm:"column:comment" json:"comment"`
}

func (Payment) TableName() string { return "payments" }
