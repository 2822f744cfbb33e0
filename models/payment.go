package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(raw)) {
	case PaymentStatusPending:
		return PaymentStatusPending, nil
	case PaymentStatusCompleted:
		return PaymentStatusCompleted, nil
	case PaymentStatusFailed:
		return PaymentStatusFailed, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

type Payment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	// One payment record per order.
	OrderID       uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	Method        string          `gorm:"size:50;not null" json:"method"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TransactionID string          `gorm:"size:100" json:"transaction_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
