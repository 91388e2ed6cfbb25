package models

import (
	"time"

	"gorm.io/gorm"

	"faturo/internal/uuid"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// RecurrencePeriod represents how often a transaction repeats
type RecurrencePeriod string

const (
	RecurrenceNone    RecurrencePeriod = "none"
	RecurrenceDaily   RecurrencePeriod = "daily"
	RecurrenceWeekly  RecurrencePeriod = "weekly"
	RecurrenceMonthly RecurrencePeriod = "monthly"
	RecurrenceYearly  RecurrencePeriod = "yearly"
)

// Transaction represents a financial transaction in the system.
//
// When Installments > 1 the transaction is a split payment: Amount holds the
// first-installment amount (the part booked on the purchase itself), not the
// purchase total, and InstallmentAmount holds the uniform per-month amount.
// The remaining obligations live in Installment rows created atomically with
// the transaction.
type Transaction struct {
	Base
	UserID      uint             `gorm:"not null;index" json:"user_id"`
	CardID      *uint            `gorm:"index" json:"card_id,omitempty"`
	CategoryID  *uint            `json:"category_id,omitempty"`
	Type        TransactionType  `gorm:"not null" json:"type"`
	Amount      int64            `gorm:"type:bigint;not null" json:"amount"`
	Currency    string           `gorm:"not null;default:'USD'" json:"currency"`
	Description string           `json:"description"`
	Date        time.Time        `gorm:"not null" json:"date"`
	Recurrence  RecurrencePeriod `gorm:"not null;default:'none'" json:"recurrence"`

	// Deferred settlement: the purchase posts to the statement this many
	// days after the purchase date.
	BillingDelayDays int `gorm:"default:0" json:"billing_delay_days"`

	// Split payment metadata
	Installments      int   `gorm:"default:1" json:"installments"`
	InstallmentAmount int64 `gorm:"type:bigint;default:0" json:"installment_amount"`

	// Stable time-ordered reference assigned by (or for) the mobile client,
	// used to reconcile offline-recorded entries on sync.
	ClientRef string `gorm:"size:36;uniqueIndex" json:"client_ref"`

	// Relationships
	Card            *Card         `gorm:"foreignKey:CardID" json:"card,omitempty"`
	Category        *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	InstallmentPlan []Installment `gorm:"foreignKey:TransactionID" json:"installment_plan,omitempty"`
}

// BeforeCreate hook assigns a UUIDv7 client reference when none was supplied
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ClientRef == "" {
		t.ClientRef = uuid.New()
	}
	return nil
}

// EffectiveBillingDate returns the date the transaction posts to a statement:
// the purchase date shifted forward by the configured settlement delay.
func (t *Transaction) EffectiveBillingDate() time.Time {
	if t.BillingDelayDays == 0 {
		return t.Date
	}
	return t.Date.AddDate(0, 0, t.BillingDelayDays)
}

// IsSplitPayment reports whether the transaction carries an installment plan.
func (t *Transaction) IsSplitPayment() bool {
	return t.Installments > 1
}
