package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	"github.com/ModawnAI/lotte-crm/internal/infra/memory"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Clock / ID
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newDeps(l repo.Ledger) usecase.Deps {
	return usecase.Deps{
		Ledger: l,
		IDs:    &seqIDs{},
		Clock:  fixedClock{t: now},
	}
}

// =====================
// Ledger with swapped repositories
// =====================

// 一部のリポジトリだけmockに差し替える
type stubLedger struct {
	*memory.Store
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	accounts   repo.AccountRepository
	auditLogs  repo.AuditLogRepository
}

func (l *stubLedger) Orders() repo.OrderRepository {
	if l.orders != nil {
		return l.orders
	}
	return l.Store.Orders()
}

func (l *stubLedger) OrderItems() repo.OrderItemRepository {
	if l.orderItems != nil {
		return l.orderItems
	}
	return l.Store.OrderItems()
}

func (l *stubLedger) Accounts() repo.AccountRepository {
	if l.accounts != nil {
		return l.accounts
	}
	return l.Store.Accounts()
}

func (l *stubLedger) AuditLogs() repo.AuditLogRepository {
	if l.auditLogs != nil {
		return l.auditLogs
	}
	return l.Store.AuditLogs()
}

// =====================
// Repository mocks
// =====================

// Createは実ストアに書き、Deleteだけmockで結果を決める
type OrderRepoMock struct {
	mock.Mock
	real repo.OrderRepository
}

func (m *OrderRepoMock) Find(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, id string) (model.Order, error) {
	return m.real.FindByID(ctx, id)
}

func (m *OrderRepoMock) Create(ctx context.Context, o model.Order) (model.Order, error) {
	return m.real.Create(ctx, o)
}

func (m *OrderRepoMock) Update(ctx context.Context, id string, p repo.OrderPatch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) Find(ctx context.Context, f repo.OrderItemFilter) ([]model.OrderItem, error) {
	panic("not used")
}

func (m *OrderItemRepoMock) FindByID(ctx context.Context, id string) (model.OrderItem, error) {
	panic("not used")
}

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID string) error {
	panic("not used")
}

type AccountRepoMock struct{ mock.Mock }

func (m *AccountRepoMock) Find(ctx context.Context, f repo.AccountFilter) ([]model.Account, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Account)
	return items, args.Error(1)
}

func (m *AccountRepoMock) FindByID(ctx context.Context, id string) (model.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Account)
	return a, args.Error(1)
}

func (m *AccountRepoMock) Create(ctx context.Context, a model.Account) (model.Account, error) {
	panic("not used")
}

func (m *AccountRepoMock) Update(ctx context.Context, id string, p repo.AccountPatch) error {
	panic("not used")
}

func (m *AccountRepoMock) Delete(ctx context.Context, id string) error {
	panic("not used")
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used")
}

// WithinTx の中で渡すLedgerを固定する
type TxManagerMock struct {
	mock.Mock
	Ledger repo.Ledger
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.Ledger) error) error {
	m.Called(ctx)
	return fn(m.Ledger)
}

// =====================
// Fixtures
// =====================

func addAccount(t *testing.T, s *memory.Store, id string, repID *string) model.Account {
	t.Helper()
	a, err := s.Accounts().Create(context.Background(), model.Account{
		ID:                 id,
		Name:               "account " + id,
		Type:               model.AccountTypeRetailer,
		Tier:               model.AccountTierGold,
		CreditLimit:        decimal.NewFromInt(1000000),
		AssignedSalesRepID: repID,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	require.NoError(t, err)
	return a
}

func addProduct(t *testing.T, s *memory.Store, id string, price int64) model.Product {
	t.Helper()
	p, err := s.Products().Create(context.Background(), model.Product{
		ID:          id,
		Name:        "product " + id,
		SKU:         "SKU-" + id,
		Category:    model.ProductCategoryJuice,
		UnitPrice:   decimal.NewFromInt(price),
		MinOrderQty: 1,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return p
}

func addRep(t *testing.T, s *memory.Store, id, name string, active bool) model.SalesRep {
	t.Helper()
	r, err := s.SalesReps().Create(context.Background(), model.SalesRep{
		ID:        id,
		Name:      name,
		Region:    "서울",
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return r
}

func addOrder(t *testing.T, s *memory.Store, id, accountID string, st model.OrderStatus, amount int64, createdAt time.Time) model.Order {
	t.Helper()
	o, err := s.Orders().Create(context.Background(), model.Order{
		ID:          id,
		AccountID:   accountID,
		Status:      st,
		OrderDate:   createdAt,
		TotalAmount: decimal.NewFromInt(amount),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	})
	require.NoError(t, err)
	return o
}

func ptr[T any](v T) *T { return &v }

// =====================
// Assertions
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertErrKind(t *testing.T, err error, kind usecase.ErrorKind) {
	t.Helper()
	ae, ok := usecase.AsAppError(err)
	if assert.True(t, ok, "err=%v is not AppError", err) {
		assert.Equal(t, kind, ae.Kind)
	}
}
