package billing

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// CreateContractInput carries the pricing terms agreed with the student.
type CreateContractInput struct {
	StudentID        uint
	ClassID          uint
	SigningDate      time.Time
	StartDate        *time.Time
	EndDate          *time.Time
	EnrollmentFee    decimal.Decimal
	MonthlyFee       decimal.Decimal
	InstallmentCount int
	DiscountPercent  decimal.Decimal
	DiscountFlat     decimal.Decimal
	TemplateTag      string
	Comment          string
}

// CreateContract validates the terms, allocates a contract number and
// persists the contract. Installment generation and the summary ledger entry
// run best-effort afterwards: a failure there leaves the contract in place
// and is repaired by the idempotent re-runs.
func (s *Service) CreateContract(in CreateContractInput) (*models.Contract, error) {
	if err := s.validateContractInput(&in); err != nil {
		return nil, err
	}

	student, err := s.Students.FindStudent(in.StudentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Classes.FindClass(in.ClassID); err != nil {
		return nil, err
	}

	var active int64
	if err := s.DB.Model(&models.Contract{}).
		Where("student_id = ? AND class_id = ? AND status = ?", in.StudentID, in.ClassID, models.ContractActive).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, conflictf("student %d already has an active contract for class %d", in.StudentID, in.ClassID)
	}

	gross := in.EnrollmentFee.Add(in.MonthlyFee.Mul(decimal.NewFromInt(int64(in.InstallmentCount))))
	total, err := ApplyDiscounts(gross, in.DiscountPercent, in.DiscountFlat)
	if err != nil {
		return nil, err
	}

	contract, err := s.createWithUniqueNumber(&in, total)
	if err != nil {
		return nil, err
	}

	// Best-effort follow-ups; both are idempotent and re-runnable.
	if err := s.GenerateInstallments(contract.ID); err != nil {
		slog.Warn("installment generation failed, contract kept",
			"contract_id", contract.ID, "error", err)
	}
	if err := s.ensureContractEntry(contract, student); err != nil {
		slog.Warn("contract ledger entry failed, contract kept",
			"contract_id", contract.ID, "error", err)
	}

	return contract, nil
}

func (s *Service) validateContractInput(in *CreateContractInput) error {
	today := s.today()
	if in.SigningDate.IsZero() {
		in.SigningDate = today
	}
	if dateOnly(in.SigningDate).After(today) {
		return validationf("signing date must not be in the future")
	}
	if in.StartDate != nil && in.EndDate != nil && !in.EndDate.After(*in.StartDate) {
		return validationf("vigency end must be after vigency start")
	}
	if in.InstallmentCount < 1 {
		return validationf("installment count must be at least 1")
	}
	if in.MonthlyFee.IsNegative() || in.EnrollmentFee.IsNegative() {
		return validationf("fees must not be negative")
	}
	if in.TemplateTag == "" {
		return validationf("contract template is required")
	}

	var template models.ContractTemplate
	err := s.DB.Where("tag = ? AND status = ?", in.TemplateTag, "ACTIVE").First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return validationf("contract template %q not found or inactive", in.TemplateTag)
	}
	return err
}

// createWithUniqueNumber runs the optimistic numbering loop: compute a
// candidate, attempt the insert, step the sequence on a unique violation.
func (s *Service) createWithUniqueNumber(in *CreateContractInput, total decimal.Decimal) (*models.Contract, error) {
	seq, err := s.nextContractSeq(in.SigningDate)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxNumberingAttempts; attempt++ {
		if seq > maxMonthlySequence {
			return nil, &ExhaustionError{Msg: fmt.Sprintf(
				"contract number space exhausted for %s", monthPrefix(in.SigningDate))}
		}

		contract := models.Contract{
			ContractNumber:   formatContractNumber(in.SigningDate, seq),
			SigningDate:      dateOnly(in.SigningDate),
			StartDate:        in.StartDate,
			EndDate:          in.EndDate,
			EnrollmentFee:    in.EnrollmentFee,
			MonthlyFee:       in.MonthlyFee,
			InstallmentCount: in.InstallmentCount,
			DiscountPercent:  in.DiscountPercent,
			DiscountFlat:     in.DiscountFlat,
			TotalAmount:      total,
			Status:           models.ContractActive,
			TemplateTag:      in.TemplateTag,
			Comment:          in.Comment,
			StudentID:        in.StudentID,
			ClassID:          in.ClassID,
		}

		err := s.DB.Create(&contract).Error
		if err == nil {
			return &contract, nil
		}
		// The pair index firing is a duplicate ACTIVE contract, not a
		// number collision; stepping the sequence would loop to exhaustion.
		if isActivePairViolation(err) {
			return nil, conflictf("student %d already has an active contract for class %d",
				in.StudentID, in.ClassID)
		}
		if isUniqueViolation(err) {
			seq++
			continue
		}
		return nil, err
	}

	return nil, &ExhaustionError{Msg: fmt.Sprintf(
		"could not allocate a unique contract number after %d attempts", maxNumberingAttempts)}
}

// ensureContractEntry projects the contract total into the dashboard ledger,
// keyed CTR-{id} so re-runs do not duplicate it.
func (s *Service) ensureContractEntry(contract *models.Contract, student *models.Student) error {
	doc := fmt.Sprintf("CTR-%d", contract.ID)

	var existing int64
	if err := s.DB.Model(&models.AccountingEntry{}).
		Where("document_number = ?", doc).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	entry := models.AccountingEntry{
		DocumentNumber: doc,
		Description:    fmt.Sprintf("Contract %s - %s", contract.ContractNumber, student.FullName()),
		Amount:         contract.TotalAmount,
		EntryDate:      contract.SigningDate,
		ContractID:     &contract.ID,
		StudentID:      &student.ID,
	}
	return s.DB.Create(&entry).Error
}

// GetContract loads one contract with its installments.
func (s *Service) GetContract(id uint) (*models.Contract, error) {
	var contract models.Contract
	err := s.DB.Preload("Student").Preload("Class").
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&contract, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "contract", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}
