package repository

import (
	"context"

	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
)

// gormで作ったLedger。同じ*gorm.DB（またはtx）を全リポジトリで共有する
type GormLedger struct {
	accounts   repo.AccountRepository
	products   repo.ProductRepository
	salesReps  repo.SalesRepRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditLogs  repo.AuditLogRepository
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{
		accounts:   NewAccountGormRepository(db),
		products:   NewProductGormRepository(db),
		salesReps:  NewSalesRepGormRepository(db),
		orders:     NewOrderGormRepository(db),
		orderItems: NewOrderItemGormRepository(db),
		auditLogs:  NewAuditLogGormRepository(db),
	}
}

func (r *GormLedger) Accounts() repo.AccountRepository     { return r.accounts }
func (r *GormLedger) Products() repo.ProductRepository     { return r.products }
func (r *GormLedger) SalesReps() repo.SalesRepRepository   { return r.salesReps }
func (r *GormLedger) Orders() repo.OrderRepository         { return r.orders }
func (r *GormLedger) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *GormLedger) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.Ledger) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// fnの中の読み書きはすべてこのtxに載る
		return fn(NewGormLedger(tx))
	})
}

var (
	_ repo.Ledger             = (*GormLedger)(nil)
	_ repo.TransactionManager = (*TxManagerGorm)(nil)
)
