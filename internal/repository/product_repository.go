package repository

import (
	"context"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	"github.com/shopspring/decimal"
)

type ProductFilter struct {
	IDs      []string
	IsActive *bool
	Category *model.ProductCategory
	SKU      *string
	Limit    int
}

type ProductPatch struct {
	Name        *string
	SKU         *string
	Category    *model.ProductCategory
	UnitPrice   *decimal.Decimal
	UnitSize    *string
	MinOrderQty *int64
	IsActive    *bool
	ImageURL    *string
	UpdatedAt   *time.Time
}

// 商品の永続化だけを約束。一覧は名前順。
type ProductRepository interface {
	Find(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id string, p ProductPatch) error
	Delete(ctx context.Context, id string) error
}
