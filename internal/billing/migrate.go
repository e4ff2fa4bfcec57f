package billing

import (
	"gorm.io/gorm"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// MigrationResult counts what a batch correction job touched.
type MigrationResult struct {
	Contracts    int `json:"contracts"`
	Installments int `json:"installments"`
}

// MigrateVigencyDates realigns pending installments' due dates with the
// schedule derived from current contract dates. Paid history is never
// rewritten; every row is re-checked against its target before writing, so
// the job is idempotent and safe to interrupt and re-run.
func (s *Service) MigrateVigencyDates() (MigrationResult, error) {
	var result MigrationResult

	err := s.eachContractWithInstallments(func(contract *models.Contract, installments []models.Installment) error {
		touched := false
		for i := range installments {
			inst := &installments[i]
			if inst.Status != models.InstallmentPending && inst.Status != models.InstallmentOverdue {
				continue
			}
			want := targetDueDate(contract, inst.Seq)
			if inst.DueDate.Equal(want) {
				continue
			}
			if err := s.DB.Model(inst).Update("due_date", want).Error; err != nil {
				return err
			}
			result.Installments++
			touched = true
		}
		if touched {
			result.Contracts++
		}
		return nil
	})
	return result, err
}

// MigrateInstallmentValues recomputes pending installments' face amounts
// from current contract fees and discounts. Like the date migration it only
// touches PENDING/OVERDUE rows and leaves paid history alone.
func (s *Service) MigrateInstallmentValues() (MigrationResult, error) {
	var result MigrationResult

	err := s.eachContractWithInstallments(func(contract *models.Contract, installments []models.Installment) error {
		faces, _, err := scheduleAmounts(contract)
		if err != nil {
			return err
		}

		touched := false
		for i := range installments {
			inst := &installments[i]
			if inst.Status != models.InstallmentPending && inst.Status != models.InstallmentOverdue {
				continue
			}
			if inst.Seq < 1 || inst.Seq > len(faces) {
				continue
			}
			want := faces[inst.Seq-1]
			if inst.FaceAmount.Equal(want) {
				continue
			}
			if err := s.DB.Model(inst).Update("face_amount", want).Error; err != nil {
				return err
			}
			result.Installments++
			touched = true
		}
		if touched {
			result.Contracts++
		}
		return nil
	})
	return result, err
}

func (s *Service) eachContractWithInstallments(fn func(*models.Contract, []models.Installment) error) error {
	var contracts []models.Contract
	return s.DB.Where("status = ?", models.ContractActive).
		FindInBatches(&contracts, 100, func(tx *gorm.DB, _ int) error {
			for i := range contracts {
				contract := &contracts[i]
				var installments []models.Installment
				if err := s.DB.Where("contract_id = ?", contract.ID).
					Order("seq").Find(&installments).Error; err != nil {
					return err
				}
				if len(installments) == 0 {
					continue
				}
				if err := fn(contract, installments); err != nil {
					return err
				}
			}
			return nil
		}).Error
}
