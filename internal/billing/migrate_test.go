package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

func TestMigrateVigencyDatesRealignsPendingRows(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	// Operator fixes the vigency start after the schedule was generated.
	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.DB.Model(&models.Contract{}).
		Where("id = ?", contract.ID).
		Update("start_date", start).Error)

	result, err := svc.MigrateVigencyDates()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Contracts)
	assert.Equal(t, 3, result.Installments)

	for seq := 1; seq <= 3; seq++ {
		inst := installmentBySeq(t, svc, contract.ID, seq)
		want := start.AddDate(0, seq, 0)
		assert.True(t, want.Equal(inst.DueDate), "seq %d due %s, want %s", seq, inst.DueDate, want)
	}

	// Second run finds everything already in place.
	result, err = svc.MigrateVigencyDates()
	require.NoError(t, err)
	assert.Zero(t, result.Contracts)
	assert.Zero(t, result.Installments)
}

func TestMigrateVigencyDatesLeavesPaidHistoryAlone(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	rcv := firstReceivable(t, svc, contract.ID, 2, models.ReceivableTuition)
	_, err := svc.RegisterPayment(RegisterPaymentInput{ReceivableID: rcv.ID, Amount: dec("100"), Method: "PIX"})
	require.NoError(t, err)

	paidDue := installmentBySeq(t, svc, contract.ID, 2).DueDate

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.DB.Model(&models.Contract{}).
		Where("id = ?", contract.ID).
		Update("start_date", start).Error)

	result, err := svc.MigrateVigencyDates()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Installments)

	inst := installmentBySeq(t, svc, contract.ID, 2)
	assert.True(t, paidDue.Equal(inst.DueDate), "paid installment due date moved to %s", inst.DueDate)
}

func TestMigrateInstallmentValuesRecomputesFaces(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	// Operator corrects the monthly fee and the contract total to match.
	require.NoError(t, svc.DB.Model(&models.Contract{}).
		Where("id = ?", contract.ID).
		Updates(map[string]any{"monthly_fee": dec("120"), "total_amount": dec("410")}).Error)

	result, err := svc.MigrateInstallmentValues()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Contracts)
	assert.Equal(t, 3, result.Installments)

	assert.True(t, installmentBySeq(t, svc, contract.ID, 1).FaceAmount.Equal(dec("170")))
	assert.True(t, installmentBySeq(t, svc, contract.ID, 2).FaceAmount.Equal(dec("120")))
	assert.True(t, installmentBySeq(t, svc, contract.ID, 3).FaceAmount.Equal(dec("120")))

	result, err = svc.MigrateInstallmentValues()
	require.NoError(t, err)
	assert.Zero(t, result.Installments)
}

func TestMigrationsSkipInactiveContracts(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	require.NoError(t, svc.DB.Model(&models.Contract{}).
		Where("id = ?", contract.ID).
		Updates(map[string]any{"status": models.ContractSuspended, "start_date": time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}).Error)

	result, err := svc.MigrateVigencyDates()
	require.NoError(t, err)
	assert.Zero(t, result.Contracts)
	assert.Zero(t, result.Installments)
}
