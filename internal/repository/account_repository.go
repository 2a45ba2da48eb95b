package repository

import (
	"context"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	"github.com/shopspring/decimal"
)

// 取引先の絞り込み条件。nilは条件なし。
type AccountFilter struct {
	IDs                []string
	AssignedSalesRepID *string
	Type               *model.AccountType
	Tier               *model.AccountTier
	Limit              int
}

// 更新する項目だけを埋める
type AccountPatch struct {
	Name          *string
	Type          *model.AccountType
	Tier          *model.AccountTier
	CreditLimit   *decimal.Decimal
	Address       *string
	ContactPerson *string
	Phone         *string
	Email         *string
	// 担当変更。ClearSalesRepがtrueなら担当を外す
	AssignedSalesRepID *string
	ClearSalesRep      bool
	UpdatedAt          *time.Time
}

// 一覧は新しい順
type AccountRepository interface {
	Find(ctx context.Context, f AccountFilter) ([]model.Account, error)
	FindByID(ctx context.Context, id string) (model.Account, error)
	Create(ctx context.Context, a model.Account) (model.Account, error)
	Update(ctx context.Context, id string, p AccountPatch) error
	Delete(ctx context.Context, id string) error
}
