package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// GenerateInstallments expands a contract's pricing terms into its dated
// installment schedule and the matching receivables. Idempotent: when any
// installments already exist for the contract it is a no-op.
func (s *Service) GenerateInstallments(contractID uint) error {
	var contract models.Contract
	if err := s.DB.First(&contract, contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "contract", ID: contractID}
		}
		return err
	}

	var existing int64
	if err := s.DB.Model(&models.Installment{}).
		Where("contract_id = ?", contractID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	faces, enrollmentShare, err := scheduleAmounts(&contract)
	if err != nil {
		return err
	}

	base := dateOnly(contract.BaseDate())
	today := s.today()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for i, face := range faces {
			seq := i + 1
			due := base.AddDate(0, seq, 0)

			installment := models.Installment{
				ContractID: contract.ID,
				Seq:        seq,
				DueDate:    due,
				FaceAmount: face,
				PaidAmount: decimal.Zero,
				Status:     models.InstallmentPending,
			}
			// A zero face has nothing to collect, usually a contract
			// discounted down to nothing. Settle it at generation so the
			// overdue sweep never flags it.
			if !face.IsPositive() {
				installment.Status = models.InstallmentPaid
				installment.PaymentDate = &today
			}
			if err := tx.Create(&installment).Error; err != nil {
				return err
			}

			// Receivables carry the undiscounted fee with the contract
			// discount share broken out, so the write-down stays visible.
			tuitionShare := face
			if seq == 1 && contract.EnrollmentFee.IsPositive() {
				tuitionShare = face.Sub(enrollmentShare)
				_, err := s.CreateReceivable(tx, ReceivableInput{
					Contract:       &contract,
					Kind:           models.ReceivableEnrollment,
					Description:    fmt.Sprintf("Enrollment fee, contract %s", contract.ContractNumber),
					Amount:         contract.EnrollmentFee,
					Discount:       contract.EnrollmentFee.Sub(enrollmentShare),
					DueDate:        due,
					InstallmentSeq: &seq,
					Backfill:       true,
				})
				if err != nil {
					return err
				}
			}

			tuitionDiscount := contract.MonthlyFee.Sub(tuitionShare)
			if tuitionDiscount.IsNegative() {
				tuitionDiscount = decimal.Zero
			}
			_, err := s.CreateReceivable(tx, ReceivableInput{
				Contract:       &contract,
				Kind:           models.ReceivableTuition,
				Description:    fmt.Sprintf("Tuition %d/%d, contract %s", seq, len(faces), contract.ContractNumber),
				Amount:         contract.MonthlyFee,
				Discount:       tuitionDiscount,
				DueDate:        due,
				InstallmentSeq: &seq,
				Backfill:       true,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// scheduleAmounts derives the face amount of every installment from the
// contract terms. The contract-level discount is spread proportionally;
// rounding remainders land on installment 1, so the faces always sum to the
// discounted total. Without discounts this degenerates to installment 1 =
// monthly + enrollment and the rest = monthly.
func scheduleAmounts(c *models.Contract) ([]decimal.Decimal, decimal.Decimal, error) {
	if c.InstallmentCount < 1 {
		return nil, decimal.Zero, validationf("contract %d has no installments to schedule", c.ID)
	}

	n := decimal.NewFromInt(int64(c.InstallmentCount))
	gross := c.EnrollmentFee.Add(c.MonthlyFee.Mul(n))
	total, err := ApplyDiscounts(gross, c.DiscountPercent, c.DiscountFlat)
	if err != nil {
		return nil, decimal.Zero, err
	}

	faces := make([]decimal.Decimal, c.InstallmentCount)
	if !gross.IsPositive() {
		for i := range faces {
			faces[i] = decimal.Zero
		}
		return faces, decimal.Zero, nil
	}

	ratio := total.Div(gross)
	rest := decimal.Zero
	for i := 1; i < c.InstallmentCount; i++ {
		faces[i] = c.MonthlyFee.Mul(ratio).Round(currencyScale)
		rest = rest.Add(faces[i])
	}
	faces[0] = total.Sub(rest)

	enrollmentShare := decimal.Zero
	if c.EnrollmentFee.IsPositive() {
		enrollmentShare = c.EnrollmentFee.Mul(ratio).Round(currencyScale)
		if enrollmentShare.GreaterThan(faces[0]) {
			enrollmentShare = faces[0]
		}
	}
	return faces, enrollmentShare, nil
}

// targetDueDate is the canonical due date of an installment sequence: the
// schedule base plus exactly seq calendar months.
func targetDueDate(c *models.Contract, seq int) time.Time {
	return dateOnly(c.BaseDate()).AddDate(0, seq, 0)
}

// ListInstallments returns a contract's schedule ordered by sequence.
func (s *Service) ListInstallments(contractID uint) ([]models.Installment, error) {
	var count int64
	if err := s.DB.Model(&models.Contract{}).Where("id = ?", contractID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &NotFoundError{Entity: "contract", ID: contractID}
	}

	var installments []models.Installment
	if err := s.DB.Where("contract_id = ?", contractID).
		Order("seq").Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}
