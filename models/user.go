package models

import "gorm.io/gorm"

// User is a back-office operator account. Authentication is a thin layer
// here; role management lives outside the billing scope.
type User struct {
	gorm.Model
	Login        string `json:"login" gorm:"uniqueIndex"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`
	Active       bool   `json:"active" gorm:"default:true"`
}

func (User) TableName() string { return "users" }
