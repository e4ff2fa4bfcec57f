package models

import (
	"time"

	"gorm.io/gorm"
)

// Class is a course offering (group, level, schedule). Like Student, only
// the fields the billing core reads are modeled here.
type Class struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string     `gorm:"column:name" json:"name"`
	Level     string     `gorm:"column:level" json:"level"`
	Status    string     `gorm:"column:status;default:'OPEN'" json:"status"`
	StartDate *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
}

func (Class) TableName() string { return "classes" }
