package models

// Category labels transactions within a single book
type Category struct {
	Base
	BookID      string    `gorm:"type:varchar(36);not null;index" json:"book_id"`
	Name        string    `gorm:"not null" json:"name"`
	Direction   Direction `gorm:"type:varchar(16);not null" json:"direction"`
	Color       string    `gorm:"type:varchar(7)" json:"color"`
	Description string    `json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatorID   string    `gorm:"type:varchar(36);not null" json:"creator_id"`
}
