package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 宣言順（集計のキー順にも使う）
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 注文ヘッダ。TotalAmountはサーバー側で計算した明細合計のみ。
type Order struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	AccountID    string          `gorm:"type:varchar(36);not null;index" json:"account_id"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	OrderDate    time.Time       `gorm:"not null" json:"order_date"`
	DeliveryDate *time.Time      `json:"delivery_date"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric;not null" json:"total_amount"`
	Notes        *string         `gorm:"type:text" json:"notes"`
	CreatedBy    *string         `gorm:"type:varchar(64)" json:"created_by"`
	CreatedAt    time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}
