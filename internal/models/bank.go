package models

type Bank struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:100;not null;unique"`
}

func (Bank) TableName() string { return "banks" }
