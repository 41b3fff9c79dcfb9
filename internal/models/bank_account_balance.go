package models

// BankAccountBalance is a balance observed on a bank account at a date, such
// as the closing figure of a statement. It is recorded by hand and never
// derived from transactions.
type BankAccountBalance struct {
	Base
	BankAccountID string `gorm:"type:varchar(36);not null;index" json:"bank_account_id"`
	Date          string `gorm:"type:varchar(10);not null" json:"date"`
	Amount        int64  `gorm:"type:bigint;not null" json:"amount"`
	Description   string `json:"description"`
	CreatorID     string `gorm:"type:varchar(36);not null" json:"creator_id"`
}
