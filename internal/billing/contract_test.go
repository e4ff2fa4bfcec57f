package billing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

func TestCreateContractComputesTotal(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.DiscountPercent = dec("10")
	in.DiscountFlat = dec("15")

	// 50 + 3*100 = 350; minus 10% = 315; minus 15 flat = 300.
	contract := mustCreateContract(t, svc, in)
	assert.True(t, contract.TotalAmount.Equal(dec("300")), "total %s", contract.TotalAmount)
	assert.Equal(t, models.ContractActive, contract.Status)
}

func TestCreateContractWritesLedgerEntryOnce(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	contract := mustCreateContract(t, svc, contractTerms(student, class))

	doc := fmt.Sprintf("CTR-%d", contract.ID)
	var entry models.AccountingEntry
	require.NoError(t, svc.DB.
		Where("document_number = ?", doc).
		First(&entry).Error)
	assert.True(t, entry.Amount.Equal(contract.TotalAmount))
	assert.Contains(t, entry.Description, contract.ContractNumber)
	assert.Contains(t, entry.Description, "Souza Ana")

	// Re-running the projection must not duplicate the line.
	require.NoError(t, svc.ensureContractEntry(contract, &student))
	var n int64
	require.NoError(t, svc.DB.Model(&models.AccountingEntry{}).
		Where("document_number = ?", doc).
		Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCreateContractRejectsDuplicateActive(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	mustCreateContract(t, svc, contractTerms(student, class))

	_, err := svc.CreateContract(contractTerms(student, class))
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestActivePairIndexBacksCountCheck(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	mustCreateContract(t, svc, contractTerms(student, class))

	// Insert directly, skipping the pre-insert count, the way a racing
	// request would. The partial unique index has to reject it and the
	// numbering loop must surface a conflict instead of spinning.
	in := contractTerms(student, class)
	_, err := svc.createWithUniqueNumber(&in, dec("300"))
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)

	var active int64
	require.NoError(t, svc.DB.Model(&models.Contract{}).
		Where("student_id = ? AND class_id = ? AND status = ?",
			student.ID, class.ID, models.ContractActive).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestCreateContractValidation(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	cases := []struct {
		name  string
		tweak func(*CreateContractInput)
	}{
		{"future signing date", func(in *CreateContractInput) {
			in.SigningDate = testToday.AddDate(0, 0, 1)
		}},
		{"vigency end before start", func(in *CreateContractInput) {
			start := testToday
			end := testToday.AddDate(0, -1, 0)
			in.StartDate, in.EndDate = &start, &end
		}},
		{"zero installments", func(in *CreateContractInput) {
			in.InstallmentCount = 0
		}},
		{"negative monthly fee", func(in *CreateContractInput) {
			in.MonthlyFee = dec("-1")
		}},
		{"missing template", func(in *CreateContractInput) {
			in.TemplateTag = ""
		}},
		{"unknown template", func(in *CreateContractInput) {
			in.TemplateTag = "does-not-exist"
		}},
		{"discount over 100 percent", func(in *CreateContractInput) {
			in.DiscountPercent = dec("101")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := contractTerms(student, class)
			tc.tweak(&in)
			_, err := svc.CreateContract(in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, "input should have been rejected")
		})
	}
}

func TestCreateContractUnknownStudentOrClass(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)

	in := contractTerms(student, class)
	in.StudentID = 999
	_, err := svc.CreateContract(in)
	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)

	in = contractTerms(student, class)
	in.ClassID = 999
	_, err = svc.CreateContract(in)
	require.ErrorAs(t, err, &nferr)
}

func TestGetContractPreloadsSchedule(t *testing.T) {
	svc := newTestService(t)
	student, class := seedDirectory(t, svc)
	created := mustCreateContract(t, svc, contractTerms(student, class))

	contract, err := svc.GetContract(created.ID)
	require.NoError(t, err)
	require.NotNil(t, contract.Student)
	require.NotNil(t, contract.Class)
	require.Len(t, contract.Installments, 3)
	for i, inst := range contract.Installments {
		assert.Equal(t, i+1, inst.Seq)
	}

	_, err = svc.GetContract(999)
	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)
}
