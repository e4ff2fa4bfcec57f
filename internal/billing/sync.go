package billing

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// SyncPayment propagates one recorded payment into the installment state
// machine and the dashboard ledger. It runs as its own unit of work, keyed
// by deterministic idempotence tags, so retries and manual re-syncs are
// safe. A missing installment link is logged and skipped, not an error: the
// receivable ledger stays authoritative for the cash itself.
func (s *Service) SyncPayment(paymentID uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Preload("Receivable").First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "payment", ID: paymentID}
			}
			return err
		}
		rcv := payment.Receivable

		if rcv.InstallmentSeq == nil {
			slog.Info("payment has no installment link, sync skipped",
				"payment_id", payment.ID, "receivable_id", rcv.ID)
			return nil
		}

		var installment models.Installment
		err := tx.Where("contract_id = ? AND seq = ?", rcv.ContractID, *rcv.InstallmentSeq).
			First(&installment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("no installment matches the receivable link, sync skipped",
				"payment_id", payment.ID, "contract_id", rcv.ContractID, "seq", *rcv.InstallmentSeq)
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.settleInstallment(tx, &installment); err != nil {
			return err
		}

		if err := s.ensurePaymentEntry(tx, &payment, &installment); err != nil {
			return err
		}
		if installment.Status == models.InstallmentPaid {
			return s.ensureInstallmentEntry(tx, &installment)
		}
		return nil
	})
	if err != nil {
		return &SyncFailure{PaymentID: paymentID, Err: err}
	}
	return nil
}

// settleInstallment recomputes the installment's paid amount from every
// payment across all receivables tied to its sequence and applies the state
// machine: PENDING/OVERDUE -> PAID when covered, no regression from PAID,
// and a partially paid overdue installment stays OVERDUE.
func (s *Service) settleInstallment(tx *gorm.DB, installment *models.Installment) error {
	var linked []models.Receivable
	if err := tx.Where("contract_id = ? AND installment_seq = ?",
		installment.ContractID, installment.Seq).Find(&linked).Error; err != nil {
		return err
	}

	paid := decimal.Zero
	outstanding := decimal.Zero
	discountedToZero := false
	for _, rcv := range linked {
		sum, err := sumPayments(tx, rcv.ID)
		if err != nil {
			return err
		}
		paid = paid.Add(sum)
		outstanding = outstanding.Add(rcv.FinalAmount)
		if rcv.FullyDiscounted() {
			discountedToZero = true
		}
	}

	// A schedule written down to nothing by discounts counts as settled;
	// it must not read as "nothing paid".
	settled := paid.GreaterThanOrEqual(installment.AmountDue()) && installment.AmountDue().IsPositive()
	if discountedToZero && !outstanding.IsPositive() {
		settled = true
	}

	installment.PaidAmount = paid
	if settled && installment.Status != models.InstallmentPaid {
		today := s.today()
		installment.Status = models.InstallmentPaid
		installment.PaymentDate = &today
	}
	// Not settled: PAID never regresses, OVERDUE stays overdue rather than
	// dropping back to PENDING. Nothing to do either way.

	return tx.Save(installment).Error
}

// ensurePaymentEntry appends the PAG-{paymentID} dashboard line once.
// Zero-value payments move no cash and get no line.
func (s *Service) ensurePaymentEntry(tx *gorm.DB, payment *models.Payment, installment *models.Installment) error {
	if !payment.Amount.IsPositive() {
		return nil
	}

	doc := fmt.Sprintf("PAG-%d", payment.ID)
	var existing int64
	if err := tx.Model(&models.AccountingEntry{}).
		Where("document_number = ?", doc).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var contract models.Contract
	if err := tx.First(&contract, installment.ContractID).Error; err != nil {
		return err
	}

	entry := models.AccountingEntry{
		DocumentNumber: doc,
		Description: fmt.Sprintf("Payment, installment %d/%d, contract %s",
			installment.Seq, contract.InstallmentCount, contract.ContractNumber),
		Amount:        payment.Amount,
		EntryDate:     payment.PaymentDate,
		ContractID:    &contract.ID,
		InstallmentID: &installment.ID,
		StudentID:     &contract.StudentID,
	}
	return tx.Create(&entry).Error
}

// ensureInstallmentEntry appends the PARC-{installmentID} settlement marker
// once. Its amount is what was actually collected, so a fully discounted
// installment settles with a zero line.
func (s *Service) ensureInstallmentEntry(tx *gorm.DB, installment *models.Installment) error {
	doc := fmt.Sprintf("PARC-%d", installment.ID)
	var existing int64
	if err := tx.Model(&models.AccountingEntry{}).
		Where("document_number = ?", doc).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var contract models.Contract
	if err := tx.First(&contract, installment.ContractID).Error; err != nil {
		return err
	}

	entryDate := installment.DueDate
	if installment.PaymentDate != nil {
		entryDate = *installment.PaymentDate
	}
	entry := models.AccountingEntry{
		DocumentNumber: doc,
		Description: fmt.Sprintf("Installment %d/%d settled, contract %s",
			installment.Seq, contract.InstallmentCount, contract.ContractNumber),
		Amount:        installment.PaidAmount,
		EntryDate:     entryDate,
		ContractID:    &contract.ID,
		InstallmentID: &installment.ID,
		StudentID:     &contract.StudentID,
	}
	return tx.Create(&entry).Error
}

// RebuildLedger re-derives the dashboard ledger from contracts and payments
// using the same idempotence tags. Existing lines are kept; only missing
// ones are appended. Returns how many lines were created.
func (s *Service) RebuildLedger() (int, error) {
	created := 0

	var contracts []models.Contract
	if err := s.DB.Preload("Student").Find(&contracts).Error; err != nil {
		return 0, err
	}
	for i := range contracts {
		c := &contracts[i]
		if c.Student == nil {
			continue
		}
		doc := fmt.Sprintf("CTR-%d", c.ID)
		var existing int64
		if err := s.DB.Model(&models.AccountingEntry{}).
			Where("document_number = ?", doc).Count(&existing).Error; err != nil {
			return created, err
		}
		if existing > 0 {
			continue
		}
		if err := s.ensureContractEntry(c, c.Student); err != nil {
			return created, err
		}
		created++
	}

	var payments []models.Payment
	if err := s.DB.Preload("Receivable").Find(&payments).Error; err != nil {
		return created, err
	}
	for i := range payments {
		p := &payments[i]
		if !p.Amount.IsPositive() || p.Receivable == nil || p.Receivable.InstallmentSeq == nil {
			continue
		}
		doc := fmt.Sprintf("PAG-%d", p.ID)
		var existing int64
		if err := s.DB.Model(&models.AccountingEntry{}).
			Where("document_number = ?", doc).Count(&existing).Error; err != nil {
			return created, err
		}
		if existing > 0 {
			continue
		}

		var installment models.Installment
		err := s.DB.Where("contract_id = ? AND seq = ?",
			p.Receivable.ContractID, *p.Receivable.InstallmentSeq).First(&installment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return created, err
		}
		if err := s.ensurePaymentEntry(s.DB, p, &installment); err != nil {
			return created, err
		}
		created++
	}

	var settled []models.Installment
	if err := s.DB.Where("status = ?", models.InstallmentPaid).Find(&settled).Error; err != nil {
		return created, err
	}
	for i := range settled {
		inst := &settled[i]
		doc := fmt.Sprintf("PARC-%d", inst.ID)
		var existing int64
		if err := s.DB.Model(&models.AccountingEntry{}).
			Where("document_number = ?", doc).Count(&existing).Error; err != nil {
			return created, err
		}
		if existing > 0 {
			continue
		}
		if err := s.ensureInstallmentEntry(s.DB, inst); err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
