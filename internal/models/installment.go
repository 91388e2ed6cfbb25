package models

import "time"

// Installment represents one future-month obligation of a split payment.
// Exactly Total rows exist per parent transaction, numbered 1..Total.
// Row 1 stands for the amount already booked on the parent and is created
// paid, with PaidDate equal to the parent's purchase date.
type Installment struct {
	Base
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	Number        int             `gorm:"not null" json:"number"` // 1-based
	Total         int             `gorm:"not null" json:"total"`
	Amount        int64           `gorm:"type:bigint;not null" json:"amount"`
	Currency      string          `gorm:"not null;default:'USD'" json:"currency"`
	Description   string          `json:"description"`
	CategoryID    *uint           `json:"category_id,omitempty"`
	Type          TransactionType `gorm:"not null" json:"type"`
	DueDate       time.Time       `gorm:"not null;index" json:"due_date"`
	Paid          bool            `gorm:"default:false" json:"paid"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`

	// Relationships
	Transaction *Transaction `gorm:"foreignKey:TransactionID" json:"-"`
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
