package billing

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// testToday is the fixed "current date" every test runs against.
var testToday = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type fixedClock struct {
	day time.Time
}

func (f fixedClock) Today() time.Time { return f.day }

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Class{},
		&models.ContractTemplate{},
		&models.Contract{},
		&models.Installment{},
		&models.Receivable{},
		&models.Payment{},
		&models.AccountingEntry{},
	))

	svc := NewService(db)
	svc.Clock = fixedClock{day: testToday}
	return svc
}

func seedDirectory(t *testing.T, svc *Service) (models.Student, models.Class) {
	t.Helper()

	student := models.Student{FirstName: "Ana", LastName: "Souza", Document: "123.456.789-00", Active: true}
	require.NoError(t, svc.DB.Create(&student).Error)

	class := models.Class{Name: "English B1 - Evening", Level: "B1", Status: "OPEN"}
	require.NoError(t, svc.DB.Create(&class).Error)

	template := models.ContractTemplate{Tag: "standard", Name: "Standard enrollment contract", Status: "ACTIVE"}
	require.NoError(t, svc.DB.Create(&template).Error)

	return student, class
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// contractTerms returns a baseline input; tests tweak fields as needed.
func contractTerms(student models.Student, class models.Class) CreateContractInput {
	return CreateContractInput{
		StudentID:        student.ID,
		ClassID:          class.ID,
		SigningDate:      testToday,
		EnrollmentFee:    dec("50"),
		MonthlyFee:       dec("100"),
		InstallmentCount: 3,
		DiscountPercent:  decimal.Zero,
		DiscountFlat:     decimal.Zero,
		TemplateTag:      "standard",
	}
}

func mustCreateContract(t *testing.T, svc *Service, in CreateContractInput) *models.Contract {
	t.Helper()
	contract, err := svc.CreateContract(in)
	require.NoError(t, err)
	return contract
}

// firstReceivable fetches the receivable of a contract installment by kind.
func firstReceivable(t *testing.T, svc *Service, contractID uint, seq int, kind string) models.Receivable {
	t.Helper()
	var rcv models.Receivable
	require.NoError(t, svc.DB.
		Where("contract_id = ? AND installment_seq = ? AND kind = ?", contractID, seq, kind).
		First(&rcv).Error)
	return rcv
}

func installmentBySeq(t *testing.T, svc *Service, contractID uint, seq int) models.Installment {
	t.Helper()
	var inst models.Installment
	require.NoError(t, svc.DB.
		Where("contract_id = ? AND seq = ?", contractID, seq).
		First(&inst).Error)
	return inst
}
