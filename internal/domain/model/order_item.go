package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。UnitPriceは作成時点の商品価格のスナップショットで、後から読み直さない。
type OrderItem struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	LineNo    int             `gorm:"not null" json:"line_no"`
	ProductID string          `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount"`
	Subtotal  decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}
