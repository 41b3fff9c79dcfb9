package models

// Transaction is a single income or spending entry in a book.
// Amount is stored in minor units and is never negative; Direction gives the sign.
type Transaction struct {
	Base
	BookID        string    `gorm:"type:varchar(36);not null;index:idx_transactions_book_date" json:"book_id"`
	Amount        int64     `gorm:"type:bigint;not null" json:"amount"`
	Direction     Direction `gorm:"type:varchar(16);not null" json:"direction"`
	Date          string    `gorm:"type:varchar(10);not null;index:idx_transactions_book_date" json:"date"`
	Description   string    `json:"description"`
	CategoryID    *string   `gorm:"type:varchar(36);index" json:"category_id"`
	BankAccountID *string   `gorm:"type:varchar(36);index" json:"bank_account_id"`
	CreatorID     string    `gorm:"type:varchar(36);not null" json:"creator_id"`

	// Relationships
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BankAccount *BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
}

// SignedAmount returns the amount with the sign implied by its direction.
// Unknown directions contribute nothing.
func (t *Transaction) SignedAmount() int64 {
	switch t.Direction {
	case DirectionIncome:
		return t.Amount
	case DirectionSpending:
		return -t.Amount
	default:
		return 0
	}
}
