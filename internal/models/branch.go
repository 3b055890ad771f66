package models

// Branch is one bank branch, keyed by its IFSC code.
type Branch struct {
	IFSC     string  `gorm:"column:ifsc;primaryKey;size:11"`
	BankID   int64   `gorm:"column:bank_id;index"`
	Bank     *Bank   `gorm:"constraint:OnDelete:RESTRICT"`
	Branch   string  `gorm:"size:200;not null"`
	Address  *string `gorm:"type:text"`
	City     *string `gorm:"size:100"`
	District *string `gorm:"size:100"`
	State    *string `gorm:"size:100"`
}

func (Branch) TableName() string { return "branches" }
