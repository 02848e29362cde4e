package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is the local record of a gateway charge. The gateway itself is an
// external collaborator; rows here exist so commissions have an auditable
// trigger to reference.
type Payment struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	UserID        uint64          `gorm:"column:user_id;index;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	Currency      string          `gorm:"column:currency;size:3;not null"`
	Status        PaymentStatus   `gorm:"column:status;size:32;index;not null"`
	TransactionID *string         `gorm:"column:transaction_id;size:255;uniqueIndex"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
