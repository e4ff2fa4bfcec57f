package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

func TestGenerateInstallmentsSchedule(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	contract := mustCreateContract(t, svc, contractTerms(student, class))

	installments, err := svc.ListInstallments(contract.ID)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	// Installment 1 carries the enrollment fee exactly once.
	assert.True(t, installments[0].FaceAmount.Equal(dec("150")), "got %s", installments[0].FaceAmount)
	assert.True(t, installments[1].FaceAmount.Equal(dec("100")))
	assert.True(t, installments[2].FaceAmount.Equal(dec("100")))

	// Contiguous sequence, due dates advance by exactly one month.
	base := contract.BaseDate()
	for i, inst := range installments {
		assert.Equal(t, i+1, inst.Seq)
		assert.True(t, base.AddDate(0, i+1, 0).Equal(inst.DueDate),
			"installment %d due %s", i+1, inst.DueDate)
		assert.Equal(t, models.InstallmentPending, inst.Status)
	}
}

func TestInstallmentFacesSumToContractTotal(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.EnrollmentFee = dec("120")
	in.MonthlyFee = dec("333.33")
	in.InstallmentCount = 7
	in.DiscountPercent = dec("12.5")
	in.DiscountFlat = dec("40")

	contract := mustCreateContract(t, svc, in)

	gross := in.EnrollmentFee.Add(in.MonthlyFee.Mul(decimal.NewFromInt(7)))
	expectedTotal, err := ApplyDiscounts(gross, in.DiscountPercent, in.DiscountFlat)
	require.NoError(t, err)
	assert.True(t, contract.TotalAmount.Equal(expectedTotal))

	installments, err := svc.ListInstallments(contract.ID)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.FaceAmount)
	}
	assert.True(t, sum.Equal(expectedTotal), "faces sum %s, contract total %s", sum, expectedTotal)
}

func TestGenerateInstallmentsIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	require.NoError(t, svc.GenerateInstallments(contract.ID))
	require.NoError(t, svc.GenerateInstallments(contract.ID))

	var installmentCount, receivableCount int64
	require.NoError(t, svc.DB.Model(&models.Installment{}).
		Where("contract_id = ?", contract.ID).Count(&installmentCount).Error)
	require.NoError(t, svc.DB.Model(&models.Receivable{}).
		Where("contract_id = ?", contract.ID).Count(&receivableCount).Error)

	assert.Equal(t, int64(3), installmentCount)
	// One enrollment receivable plus one tuition receivable per installment.
	assert.Equal(t, int64(4), receivableCount)
}

func TestScheduleBaseDatePrefersVigencyStart(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC)
	in := contractTerms(student, class)
	in.StartDate = &start
	in.EndDate = &end

	contract := mustCreateContract(t, svc, in)

	installments, err := svc.ListInstallments(contract.ID)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC).Equal(installments[0].DueDate),
		"first due %s", installments[0].DueDate)
}

func TestReceivablesMirrorSchedule(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	enrollment := firstReceivable(t, svc, contract.ID, 1, models.ReceivableEnrollment)
	assert.True(t, enrollment.OriginalAmount.Equal(dec("50")))
	assert.True(t, enrollment.FinalAmount.Equal(dec("50")))

	tuition := firstReceivable(t, svc, contract.ID, 1, models.ReceivableTuition)
	assert.True(t, tuition.OriginalAmount.Equal(dec("100")))

	inst := installmentBySeq(t, svc, contract.ID, 1)
	assert.True(t, enrollment.OriginalAmount.Add(tuition.OriginalAmount).Equal(inst.FaceAmount))
}

func TestContractDiscountCarriesToReceivables(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.DiscountPercent = dec("10")
	contract := mustCreateContract(t, svc, in)

	// The receivable keeps the full fee and breaks the write-down out as
	// discount instead of silently shrinking the original amount.
	tuition := firstReceivable(t, svc, contract.ID, 2, models.ReceivableTuition)
	assert.True(t, tuition.OriginalAmount.Equal(dec("100")), "original %s", tuition.OriginalAmount)
	assert.True(t, tuition.Discount.Equal(dec("10")), "discount %s", tuition.Discount)
	assert.True(t, tuition.FinalAmount.Equal(dec("90")), "final %s", tuition.FinalAmount)
	assert.Equal(t, models.SettlementPending, tuition.Status)

	enrollment := firstReceivable(t, svc, contract.ID, 1, models.ReceivableEnrollment)
	assert.True(t, enrollment.OriginalAmount.Equal(dec("50")))
	assert.True(t, enrollment.Discount.Equal(dec("5")))
	assert.True(t, enrollment.FinalAmount.Equal(dec("45")))
}

func TestFullyDiscountedContractSettlesAtGeneration(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.DiscountPercent = dec("100")
	in.SigningDate = testToday.AddDate(0, -3, 0)
	contract := mustCreateContract(t, svc, in)
	require.True(t, contract.TotalAmount.IsZero())

	installments, err := svc.ListInstallments(contract.ID)
	require.NoError(t, err)
	require.Len(t, installments, 3)
	for _, inst := range installments {
		assert.True(t, inst.FaceAmount.IsZero())
		assert.Equal(t, models.InstallmentPaid, inst.Status)
		require.NotNil(t, inst.PaymentDate)
	}

	tuition := firstReceivable(t, svc, contract.ID, 2, models.ReceivableTuition)
	assert.True(t, tuition.OriginalAmount.Equal(dec("100")))
	assert.True(t, tuition.Discount.Equal(dec("100")))
	assert.True(t, tuition.FinalAmount.IsZero())
	assert.Equal(t, models.SettlementPaid, tuition.Status)

	enrollment := firstReceivable(t, svc, contract.ID, 1, models.ReceivableEnrollment)
	assert.Equal(t, models.SettlementPaid, enrollment.Status)

	// Nothing is owed, so the schedule never reads as late even though the
	// due dates are behind today.
	flagged, err := svc.SweepOverdue()
	require.NoError(t, err)
	assert.Zero(t, flagged)

	overdue, err := svc.ListOverdueInstallments(testToday)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestGenerateInstallmentsUnknownContract(t *testing.T) {
	svc := newTestService(t)

	err := svc.GenerateInstallments(12345)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
