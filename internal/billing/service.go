package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

// Clock supplies the current date for due-date and overdue comparisons.
// Tests substitute a fixed clock.
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time { return time.Now() }

// StudentDirectory and ClassDirectory are the lookup surfaces billing
// consumes from the registration side of the system.
type StudentDirectory interface {
	FindStudent(id uint) (*models.Student, error)
}

type ClassDirectory interface {
	FindClass(id uint) (*models.Class, error)
}

// Service orchestrates the billing core: contract creation and numbering,
// installment scheduling, the receivable ledger, payment registration and
// the ledger synchronizer.
type Service struct {
	DB       *gorm.DB
	Clock    Clock
	Students StudentDirectory
	Classes  ClassDirectory
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:       db,
		Clock:    systemClock{},
		Students: gormDirectory{db},
		Classes:  gormDirectory{db},
	}
}

// gormDirectory backs both lookup interfaces with the shared database. A
// deployment that keeps student records elsewhere swaps these out.
type gormDirectory struct {
	db *gorm.DB
}

func (d gormDirectory) FindStudent(id uint) (*models.Student, error) {
	var student models.Student
	if err := d.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "student", ID: id}
		}
		return nil, err
	}
	return &student, nil
}

func (d gormDirectory) FindClass(id uint) (*models.Class, error) {
	var class models.Class
	if err := d.db.First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "class", ID: id}
		}
		return nil, err
	}
	return &class, nil
}

// today returns the clock's date truncated to midnight UTC; all date-only
// comparisons in the package go through it.
func (s *Service) today() time.Time {
	return dateOnly(s.Clock.Today())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// forUpdate locks the selected rows until the transaction ends, so two
// concurrent registrations against the same receivable serialize instead of
// both reading the pre-payment state. sqlite has no row locks and a single
// writer, so the clause is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
