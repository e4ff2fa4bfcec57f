package billing

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// CancelContract removes the contract and its entire financial trail in
// dependency order: payments, receivables, installments, ledger entries,
// then the contract itself. These are force-delete semantics: money already
// received is dropped with the rest, which is why a reason is mandatory and
// the loss is logged loudly.
func (s *Service) CancelContract(contractID uint, reason string) error {
	if reason == "" {
		return validationf("cancellation reason is required")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var contract models.Contract
		if err := tx.First(&contract, contractID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "contract", ID: contractID}
			}
			return err
		}

		var receivableIDs []uint
		if err := tx.Model(&models.Receivable{}).
			Where("contract_id = ?", contractID).
			Pluck("id", &receivableIDs).Error; err != nil {
			return err
		}

		if len(receivableIDs) > 0 {
			var payments []models.Payment
			if err := tx.Where("receivable_id IN ?", receivableIDs).Find(&payments).Error; err != nil {
				return err
			}
			if len(payments) > 0 {
				received := decimal.Zero
				for _, p := range payments {
					received = received.Add(p.Amount)
				}
				slog.Warn("canceling contract with recorded payments, financial history will be removed",
					"contract_id", contractID, "contract_number", contract.ContractNumber,
					"payments", len(payments), "amount_received", received.String(), "reason", reason)

				if err := tx.Where("receivable_id IN ?", receivableIDs).
					Delete(&models.Payment{}).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Where("contract_id = ?", contractID).
			Delete(&models.Receivable{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", contractID).
			Delete(&models.Installment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", contractID).
			Delete(&models.AccountingEntry{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&contract).
			Updates(map[string]any{"status": models.ContractCanceled, "comment": reason}).Error; err != nil {
			return err
		}
		return tx.Delete(&contract).Error
	})
}
