package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

func TestListOverdueInstallmentsIsDateDerived(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.SigningDate = testToday.AddDate(0, -3, 0)
	contract := mustCreateContract(t, svc, in)

	// Dues fall on the 10th of Jan, Feb and Mar; only the first two are past
	// as of today. No sweep has run, the listing derives from dates alone.
	overdue, err := svc.ListOverdueInstallments(testToday)
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, 1, overdue[0].Seq)
	assert.Equal(t, 2, overdue[1].Seq)
	assert.Equal(t, contract.ID, overdue[0].ContractID)
	require.NotNil(t, overdue[0].Contract)
	require.NotNil(t, overdue[0].Contract.Student)
	assert.Equal(t, "Souza Ana", overdue[0].Contract.Student.FullName())

	// A later as-of date pulls the last installment in too.
	overdue, err = svc.ListOverdueInstallments(testToday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, overdue, 3)
}

func TestSweepOverduePersistsStatus(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.SigningDate = testToday.AddDate(0, -3, 0)
	contract := mustCreateContract(t, svc, in)

	swept, err := svc.SweepOverdue()
	require.NoError(t, err)
	assert.EqualValues(t, 2, swept)

	assert.Equal(t, models.InstallmentOverdue, installmentBySeq(t, svc, contract.ID, 1).Status)
	assert.Equal(t, models.InstallmentOverdue, installmentBySeq(t, svc, contract.ID, 2).Status)
	assert.Equal(t, models.InstallmentPending, installmentBySeq(t, svc, contract.ID, 3).Status)

	// Re-running finds nothing new.
	swept, err = svc.SweepOverdue()
	require.NoError(t, err)
	assert.Zero(t, swept)
}

func TestSweepOverdueSkipsPaid(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.SigningDate = testToday.AddDate(0, -3, 0)
	contract := mustCreateContract(t, svc, in)

	// Settle installment 2 in full before the sweep: tuition plus nothing
	// else on that row.
	rcv := firstReceivable(t, svc, contract.ID, 2, models.ReceivableTuition)
	_, err := svc.RegisterPayment(RegisterPaymentInput{ReceivableID: rcv.ID, Amount: dec("100"), Method: "PIX"})
	require.NoError(t, err)

	swept, err := svc.SweepOverdue()
	require.NoError(t, err)
	assert.EqualValues(t, 1, swept)

	assert.Equal(t, models.InstallmentPaid, installmentBySeq(t, svc, contract.ID, 2).Status)
}

func TestPayingOverdueInstallmentClearsIt(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.SigningDate = testToday.AddDate(0, -3, 0)
	contract := mustCreateContract(t, svc, in)

	_, err := svc.SweepOverdue()
	require.NoError(t, err)

	rcv := firstReceivable(t, svc, contract.ID, 2, models.ReceivableTuition)
	_, err = svc.RegisterPayment(RegisterPaymentInput{ReceivableID: rcv.ID, Amount: dec("100"), Method: "PIX"})
	require.NoError(t, err)

	assert.Equal(t, models.InstallmentPaid, installmentBySeq(t, svc, contract.ID, 2).Status)

	overdue, err := svc.ListOverdueInstallments(testToday)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, 1, overdue[0].Seq)
}
