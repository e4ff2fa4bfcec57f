package billing

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// RegisterPaymentInput is one cash receipt recorded by an operator.
type RegisterPaymentInput struct {
	ReceivableID uint
	Amount       decimal.Decimal
	Method       string
	PaymentDate  time.Time

	// Discount is a per-payment write-down applied to the receivable before
	// settlement is recomputed. A zero Amount is only accepted when the
	// receivable ends up fully discounted.
	Discount decimal.Decimal
	Comment  string
}

// RegisterPayment persists the payment and settles the receivable in one
// transaction, then projects the result into the installment state machine
// and the accounting ledger in a second, independent one. A projection
// failure is logged and left for re-sync; the recorded payment stands.
func (s *Service) RegisterPayment(in RegisterPaymentInput) (*models.Payment, error) {
	today := s.today()

	if in.Amount.IsNegative() {
		return nil, validationf("payment amount must not be negative, got %s", in.Amount)
	}
	if in.Discount.IsNegative() {
		return nil, validationf("payment discount must not be negative")
	}
	if in.PaymentDate.IsZero() {
		in.PaymentDate = today
	}
	if dateOnly(in.PaymentDate).After(today) {
		return nil, validationf("payment date must not be in the future")
	}

	var payment models.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var rcv models.Receivable
		if err := forUpdate(tx).First(&rcv, in.ReceivableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "receivable", ID: in.ReceivableID}
			}
			return err
		}
		if rcv.Status == models.SettlementPaid {
			return conflictf("receivable %d is already settled", rcv.ID)
		}
		if rcv.Status == models.SettlementCanceled {
			return conflictf("receivable %d is canceled", rcv.ID)
		}

		if in.Discount.IsPositive() {
			rcv.Discount = rcv.Discount.Add(in.Discount.Round(currencyScale))
			rcv.RecomputeFinal()
		}
		if !in.Amount.IsPositive() && !rcv.FullyDiscounted() {
			return validationf("zero-amount payment is only valid for a fully discounted receivable")
		}

		payment = models.Payment{
			ReceivableID:  rcv.ID,
			ReceiptNumber: uuid.NewString(),
			Amount:        in.Amount.Round(currencyScale),
			Discount:      in.Discount.Round(currencyScale),
			Method:        in.Method,
			PaymentDate:   dateOnly(in.PaymentDate),
			Comment:       in.Comment,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

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

	if err := s.SyncPayment(payment.ID); err != nil {
		slog.Warn("payment recorded but ledger sync failed, awaiting re-sync",
			"payment_id", payment.ID, "receivable_id", payment.ReceivableID, "error", err)
	}

	return &payment, nil
}
