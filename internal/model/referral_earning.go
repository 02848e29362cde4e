package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "pending"
	CommissionStatusApproved CommissionStatus = "approved"
	CommissionStatusPaid     CommissionStatus = "paid"
	CommissionStatusRejected CommissionStatus = "rejected"
)

// ReferralEarning is one commission ledger row. Amount, rate and level are
// written once at creation and never change; only Status and Notes are
// mutable. Rows are never deleted.
//
// The composite unique index on (user_id, source_payment_id, referral_level)
// is the idempotency guard for payment-succeeded replays: the database, not
// an in-process lock, rejects duplicates.
type ReferralEarning struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// UserID is the upline member credited with the commission.
	UserID uint64 `gorm:"column:user_id;index;not null;uniqueIndex:uq_earning_payment_level"`
	// ReferredUserID is the payer whose payment triggered the commission.
	// Nullable so the ledger survives deletion of that account.
	ReferredUserID  *uint64 `gorm:"column:referred_user_id;index"`
	SourcePaymentID *uint64 `gorm:"column:source_payment_id;index;uniqueIndex:uq_earning_payment_level"`

	CommissionAmount decimal.Decimal `gorm:"column:commission_amount;type:decimal(10,2);not null"`
	CommissionRate   decimal.Decimal `gorm:"column:commission_rate;type:decimal(5,4);not null"`
	ReferralLevel    int             `gorm:"column:referral_level;not null;index;uniqueIndex:uq_earning_payment_level"`

	Status CommissionStatus `gorm:"column:status;size:32;index;not null"`
	Notes  string           `gorm:"column:notes;type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ReferralEarning) TableName() string {
	return "referral_earnings"
}
