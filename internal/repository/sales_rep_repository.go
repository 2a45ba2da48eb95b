package repository

import (
	"context"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
)

type SalesRepFilter struct {
	IsActive *bool
	Region   *string
	Limit    int
}

type SalesRepPatch struct {
	Name      *string
	Email     *string
	Phone     *string
	Region    *string
	IsActive  *bool
	UpdatedAt *time.Time
}

// 一覧は名前順（同名はID順）
type SalesRepRepository interface {
	Find(ctx context.Context, f SalesRepFilter) ([]model.SalesRep, error)
	FindByID(ctx context.Context, id string) (model.SalesRep, error)
	Create(ctx context.Context, r model.SalesRep) (model.SalesRep, error)
	Update(ctx context.Context, id string, p SalesRepPatch) error
	Delete(ctx context.Context, id string) error

	// トランザクション内で行ロックを取る。トランザクション外では存在確認だけ。
	LockByID(ctx context.Context, id string) error
}
