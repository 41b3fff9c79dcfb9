package models

// BankAccount is where a transaction's money moved. Transactions without one are cash.
type BankAccount struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Number      string `json:"number"`
	AccountName string `json:"account_name"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	CreatorID   string `gorm:"type:varchar(36);not null;index" json:"creator_id"`
}
