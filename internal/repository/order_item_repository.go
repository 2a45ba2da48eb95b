package repository

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
)

type OrderItemFilter struct {
	OrderID   *string
	ProductID *string
	Limit     int
}

// 明細は作成後に変更しない（Updateなし）
type OrderItemRepository interface {
	Find(ctx context.Context, f OrderItemFilter) ([]model.OrderItem, error)
	FindByID(ctx context.Context, id string) (model.OrderItem, error)
	// 全件まとめて入れる。途中までの書き込みは残さない
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
	DeleteByOrderID(ctx context.Context, orderID string) error
}
