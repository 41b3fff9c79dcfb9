package models

// ReportPeriod selects the window a book's dashboard summarizes.
type ReportPeriod string

const (
	ReportPeriodWeekly  ReportPeriod = "weekly"
	ReportPeriodMonthly ReportPeriod = "monthly"
	ReportPeriodAllTime ReportPeriod = "all_time"
)

// Valid reports whether p is a supported report period.
func (p ReportPeriod) Valid() bool {
	switch p {
	case ReportPeriodWeekly, ReportPeriodMonthly, ReportPeriodAllTime:
		return true
	}
	return false
}

// Book is a ledger that owns transactions and categories
type Book struct {
	Base
	Name         string       `gorm:"not null" json:"name"`
	Description  string       `json:"description"`
	CreatorID    string       `gorm:"type:varchar(36);not null;index" json:"creator_id"`
	Budget       *int64       `gorm:"type:bigint" json:"budget"`
	ReportPeriod ReportPeriod `gorm:"type:varchar(16);not null;default:'monthly'" json:"report_period"`
	CurrencyCode string       `gorm:"type:varchar(3);not null" json:"currency_code"`
	IsActive     bool         `gorm:"default:true" json:"is_active"`
}
