package models

import "gorm.io/gorm"

// ContractTemplate names a document template. Rendering is handled by the
// documents module; billing only validates that the tag a contract
// references exists and is active.
type ContractTemplate struct {
	gorm.Model
	Tag            string `json:"tag" gorm:"uniqueIndex"`
	Name           string `json:"name"`
	Classification string `json:"classification"`
	Status         string `json:"status" gorm:"default:'ACTIVE'"`
}

func (ContractTemplate) TableName() string { return "contract_templates" }
