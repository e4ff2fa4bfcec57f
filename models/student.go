package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is the minimal record the billing core consumes. Full student
// management (enrollment forms, guardians, documents) lives in the
// registration module and is out of scope here.
type Student struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FirstName string `gorm:"column:first_name" json:"firstName"`
	LastName  string `gorm:"column:last_name" json:"lastName"`
	Document  string `gorm:"column:document;index" json:"document"`
	Email     string `gorm:"column:email" json:"email"`
	Phone     string `gorm:"column:phone" json:"phone"`
	Active    bool   `gorm:"column:active;default:true" json:"active"`
}

func (Student) TableName() string { return "students" }

func (s *Student) FullName() string {
	return s.LastName + " " + s.FirstName
}
