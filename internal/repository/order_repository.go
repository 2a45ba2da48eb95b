package repository

import (
	"context"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
)

type OrderFilter struct {
	AccountID  *string
	AccountIDs []string
	Statuses   []model.OrderStatus
	// created_at >= CreatedFrom
	CreatedFrom *time.Time
	Limit       int
}

type OrderPatch struct {
	Status    *model.OrderStatus
	UpdatedAt *time.Time
	// 設定されていれば、現在のstatusが一致するときだけ更新する（ずれていればErrConflict）
	ExpectedStatus *model.OrderStatus
}

// 一覧は新しい順
type OrderRepository interface {
	Find(ctx context.Context, f OrderFilter) ([]model.Order, error)
	FindByID(ctx context.Context, id string) (model.Order, error)
	Create(ctx context.Context, o model.Order) (model.Order, error)
	Update(ctx context.Context, id string, p OrderPatch) error
	Delete(ctx context.Context, id string) error
}
