package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractActive    ContractStatus = "ACTIVE"
	ContractCanceled  ContractStatus = "CANCELED"
	ContractSuspended ContractStatus = "SUSPENDED"
	ContractFinished  ContractStatus = "FINISHED"
)

// Contract is the priced agreement between a student and a class offering.
// TotalAmount is computed once at creation (percent discount first, then the
// flat discount, floored at zero) and is never silently recomputed afterwards.
type Contract struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContractNumber string     `gorm:"column:contract_number;uniqueIndex" json:"contractNumber"`
	SigningDate    time.Time  `gorm:"column:signing_date" json:"signingDate"`
	StartDate      *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate        *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`

	EnrollmentFee    decimal.Decimal `gorm:"column:enrollment_fee;type:numeric(12,2)" json:"enrollmentFee"`
	MonthlyFee       decimal.Decimal `gorm:"column:monthly_fee;type:numeric(12,2)" json:"monthlyFee"`
	InstallmentCount int             `gorm:"column:installment_count" json:"installmentCount"`
	DiscountPercent  decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2)" json:"discountPercent"`
	DiscountFlat     decimal.Decimal `gorm:"column:discount_flat;type:numeric(12,2)" json:"discountFlat"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2)" json:"totalAmount"`

	Status      ContractStatus `gorm:"column:status;default:'ACTIVE';index" json:"status"`
	TemplateTag string         `gorm:"column:template_tag" json:"templateTag"`
	Comment     string         `gorm:"column:comment" json:"comment"`

	// The partial unique index is what actually holds the one-ACTIVE-
	// contract-per-pair rule under concurrent creates; the pre-insert count
	// check only produces the friendlier error.
	StudentID uint     `gorm:"column:student_id;index;uniqueIndex:uniq_contracts_active_pair,where:status = 'ACTIVE' AND deleted_at IS NULL" json:"studentId"`
	Student   *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	ClassID uint   `gorm:"column:class_id;index;uniqueIndex:uniq_contracts_active_pair" json:"classId"`
	Class   *Class `gorm:"foreignKey:ClassID" json:"class,omitempty"`

	Installments []Installment `gorm:"foreignKey:ContractID" json:"installments,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

// BaseDate is the date the installment schedule advances from: the vigency
// start when present, otherwise the signing date.
func (c *Contract) BaseDate() time.Time {
	if c.StartDate != nil {
		return *c.StartDate
	}
	return c.SigningDate
}
