// Package memory はプロセス内に全データを持つLedger。
// トランザクションは持たないので、注文作成は補償（作ったものを消す）で戻す。
package memory

import (
	"sync"

	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
)

// Store は全エンティティを1つのmutexで守る
type Store struct {
	mu sync.RWMutex

	accounts   map[string]model.Account
	products   map[string]model.Product
	salesReps  map[string]model.SalesRep
	orders     map[string]model.Order
	orderItems map[string]model.OrderItem
	auditLogs  []model.AuditLog
	auditSeq   int64

	accountRepo   *accountRepository
	productRepo   *productRepository
	salesRepRepo  *salesRepRepository
	orderRepo     *orderRepository
	orderItemRepo *orderItemRepository
	auditLogRepo  *auditLogRepository
}

func NewStore() *Store {
	s := &Store{
		accounts:   map[string]model.Account{},
		products:   map[string]model.Product{},
		salesReps:  map[string]model.SalesRep{},
		orders:     map[string]model.Order{},
		orderItems: map[string]model.OrderItem{},
	}
	s.accountRepo = &accountRepository{s: s}
	s.productRepo = &productRepository{s: s}
	s.salesRepRepo = &salesRepRepository{s: s}
	s.orderRepo = &orderRepository{s: s}
	s.orderItemRepo = &orderItemRepository{s: s}
	s.auditLogRepo = &auditLogRepository{s: s}
	return s
}

func (s *Store) Accounts() repo.AccountRepository     { return s.accountRepo }
func (s *Store) Products() repo.ProductRepository     { return s.productRepo }
func (s *Store) SalesReps() repo.SalesRepRepository   { return s.salesRepRepo }
func (s *Store) Orders() repo.OrderRepository         { return s.orderRepo }
func (s *Store) OrderItems() repo.OrderItemRepository { return s.orderItemRepo }
func (s *Store) AuditLogs() repo.AuditLogRepository   { return s.auditLogRepo }

var _ repo.Ledger = (*Store)(nil)

func limitSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
