package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

func TestRebuildLedgerRederivesMissingLines(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	rcv := firstReceivable(t, svc, contract.ID, 2, models.ReceivableTuition)
	_, err := svc.RegisterPayment(RegisterPaymentInput{ReceivableID: rcv.ID, Amount: dec("100"), Method: "PIX"})
	require.NoError(t, err)

	var before int64
	require.NoError(t, svc.DB.Model(&models.AccountingEntry{}).Count(&before).Error)
	require.EqualValues(t, 3, before, "expected the CTR, PAG and PARC lines")

	// Wipe the dashboard and rebuild it from contracts and payments.
	require.NoError(t, svc.DB.Unscoped().
		Where("1 = 1").Delete(&models.AccountingEntry{}).Error)

	created, err := svc.RebuildLedger()
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	var entries []models.AccountingEntry
	require.NoError(t, svc.DB.Order("document_number").Find(&entries).Error)
	require.Len(t, entries, 3)
	assert.Contains(t, entries[0].DocumentNumber, "CTR-")
	assert.Contains(t, entries[1].DocumentNumber, "PAG-")
	assert.Contains(t, entries[2].DocumentNumber, "PARC-")

	// Everything is in place now; a second rebuild adds nothing.
	created, err = svc.RebuildLedger()
	require.NoError(t, err)
	assert.Zero(t, created)
}
