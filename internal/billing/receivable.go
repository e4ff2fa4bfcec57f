package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// ReceivableInput describes one billable charge to record.
type ReceivableInput struct {
	Contract       *models.Contract
	Kind           string
	Description    string
	Amount         decimal.Decimal
	DueDate        time.Time
	InstallmentSeq *int

	// Discount already granted at creation time, e.g. the contract-level
	// discount share carried onto a schedule-derived charge.
	Discount decimal.Decimal

	// Backfill permits a due date in the past, for retroactive charges and
	// schedule-derived receivables of already-running contracts.
	Backfill bool
}

// CreateReceivable records a billable charge inside the caller's unit of
// work. Final amount starts at original minus any creation-time discount;
// later adjustments recompute it.
func (s *Service) CreateReceivable(tx *gorm.DB, in ReceivableInput) (*models.Receivable, error) {
	if in.Contract == nil {
		return nil, validationf("receivable requires a contract")
	}
	if in.Amount.IsNegative() {
		return nil, validationf("receivable amount must not be negative, got %s", in.Amount)
	}
	if in.Discount.IsNegative() {
		return nil, validationf("receivable discount must not be negative, got %s", in.Discount)
	}
	due := dateOnly(in.DueDate)
	if due.Before(s.today()) && !in.Backfill {
		return nil, validationf("receivable due date %s is in the past", due.Format("2006-01-02"))
	}

	rcv := models.Receivable{
		ContractID:     in.Contract.ID,
		InstallmentSeq: in.InstallmentSeq,
		Kind:           in.Kind,
		Description:    in.Description,
		OriginalAmount: in.Amount.Round(currencyScale),
		Discount:       in.Discount.Round(currencyScale),
		Interest:       decimal.Zero,
		DueDate:        due,
		Status:         models.SettlementPending,
	}
	rcv.RecomputeFinal()

	// A charge born fully discounted has nothing left to collect; settle it
	// here so it never reads as an unpaid debt.
	s.applySettlement(&rcv, decimal.Zero)

	if err := tx.Create(&rcv).Error; err != nil {
		return nil, err
	}
	return &rcv, nil
}

// AdjustReceivable sets the discount and interest of an unsettled receivable
// and recomputes its final amount and settlement state against the payments
// already recorded. Settled history is immutable.
func (s *Service) AdjustReceivable(id uint, discount, interest decimal.Decimal) (*models.Receivable, error) {
	if discount.IsNegative() || interest.IsNegative() {
		return nil, validationf("discount and interest must not be negative")
	}

	var rcv models.Receivable
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&rcv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "receivable", ID: id}
			}
			return err
		}
		if rcv.Status == models.SettlementPaid {
			return conflictf("receivable %d is already settled", id)
		}
		if rcv.Status == models.SettlementCanceled {
			return conflictf("receivable %d is canceled", id)
		}

		rcv.Discount = discount.Round(currencyScale)
		rcv.Interest = interest.Round(currencyScale)
		rcv.RecomputeFinal()

		paid, err := sumPayments(tx, rcv.ID)
		if err != nil {
			return err
		}
		s.applySettlement(&rcv, paid)

		return tx.Save(&rcv).Error
	})
	if err != nil {
		return nil, err
	}
	return &rcv, nil
}

// AccrueReceivableInterest applies the money-policy late interest to an
// overdue, unsettled receivable as of the clock's today.
func (s *Service) AccrueReceivableInterest(id uint, monthlyRate decimal.Decimal) (*models.Receivable, error) {
	var rcv models.Receivable
	if err := s.DB.First(&rcv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "receivable", ID: id}
		}
		return nil, err
	}
	if rcv.Status == models.SettlementPaid || rcv.Status == models.SettlementCanceled {
		return nil, conflictf("receivable %d is closed", id)
	}

	daysLate := int(s.today().Sub(dateOnly(rcv.DueDate)).Hours() / 24)
	interest := SimpleInterest(rcv.OriginalAmount.Sub(rcv.Discount), monthlyRate, daysLate)
	return s.AdjustReceivable(id, rcv.Discount, interest)
}

// applySettlement recomputes the settlement status from the cumulative paid
// amount. Fully covered -> PAGO stamped today; anything in between ->
// PARCIAL; zero paid leaves the status untouched.
func (s *Service) applySettlement(rcv *models.Receivable, paid decimal.Decimal) {
	switch {
	case paid.GreaterThanOrEqual(rcv.FinalAmount) && (paid.IsPositive() || rcv.FullyDiscounted()):
		if rcv.Status != models.SettlementPaid {
			today := s.today()
			rcv.Status = models.SettlementPaid
			rcv.PaymentDate = &today
		}
	case paid.IsPositive():
		rcv.Status = models.SettlementPartial
	}
}

func sumPayments(tx *gorm.DB, receivableID uint) (decimal.Decimal, error) {
	var payments []models.Payment
	if err := tx.Where("receivable_id = ?", receivableID).Find(&payments).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}
