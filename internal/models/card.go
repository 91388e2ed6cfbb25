package models

// Card represents a payment card configuration. WithdrawDay is the
// day-of-month on which the card's billing cycle closes; statement
// bucketing derives every cycle boundary from it.
type Card struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Alias       string `gorm:"not null" json:"alias"`
	LastDigits  string `gorm:"size:4" json:"last_digits"`
	WithdrawDay int    `gorm:"not null" json:"withdraw_day"` // 1-31, clamped per month at calculation time
	CreditLimit int64  `gorm:"type:bigint" json:"credit_limit"`
	Currency    string `gorm:"not null;default:'USD'" json:"currency"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CardID" json:"transactions,omitempty"`
}
