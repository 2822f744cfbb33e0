package models

import (
	"errors"
	"strings"
	"time"
)

type ShippingStatus string

const (
	ShippingStatusPending   ShippingStatus = "pending"
	ShippingStatusInTransit ShippingStatus = "in_transit"
	ShippingStatusDelivered ShippingStatus = "delivered"
)

// shippingRank orders the shipment lifecycle so updates can only move
// forward. Equal-rank updates are allowed (e.g. attaching a tracking
// number while still pending).
var shippingRank = map[ShippingStatus]int{
	ShippingStatusPending:   0,
	ShippingStatusInTransit: 1,
	ShippingStatusDelivered: 2,
}

func (s ShippingStatus) Rank() int {
	return shippingRank[s]
}

func ParseShippingStatus(raw string) (ShippingStatus, error) {
	switch ShippingStatus(strings.ToLower(raw)) {
	case ShippingStatusPending:
		return ShippingStatusPending, nil
	case ShippingStatusInTransit:
		return ShippingStatusInTransit, nil
	case ShippingStatusDelivered:
		return ShippingStatusDelivered, nil
	default:
		return "", errors.New("invalid shipping status")
	}
}

type Shipping struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	// One shipment per order.
	OrderID           uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	CourierName       string         `gorm:"size:100;not null" json:"courier_name"`
	TrackingNumber    string         `gorm:"size:100" json:"tracking_number"`
	Status            ShippingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery"`
	DeliveredAt       *time.Time     `json:"delivered_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
