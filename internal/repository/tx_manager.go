package repository

import "context"

// 5エンティティ＋監査ログの窓口をまとめたもの
type Ledger interface {
	Accounts() AccountRepository
	Products() ProductRepository
	SalesReps() SalesRepRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したらrollback。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r Ledger) error) error
}
