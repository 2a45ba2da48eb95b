package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	"github.com/ModawnAI/lotte-crm/internal/domain/pricing"
	"github.com/ModawnAI/lotte-crm/internal/idempotency"
	"github.com/ModawnAI/lotte-crm/internal/metrics"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultRecentOrders = 5

// 同じ利用者・同じキーの再送を最初の結果にまとめる
type IdempotencyStore interface {
	Begin(ctx context.Context, actorID, key string) (orderID string, started bool, err error)
	Complete(ctx context.Context, actorID, key, orderID string) error
	Release(ctx context.Context, actorID, key string) error
}

type OrderOptions struct {
	PricingStrict bool
	Idempotency   IdempotencyStore
}

type OrderUsecase struct {
	Deps
	opts OrderOptions
}

func NewOrderUsecase(d Deps, opts OrderOptions) *OrderUsecase {
	return &OrderUsecase{Deps: d.withDefaults(), opts: opts}
}

type CreateOrderInput struct {
	AccountID      string
	DeliveryDate   *time.Time
	Notes          *string
	Lines          []pricing.LineRequest
	IdempotencyKey string
}

type CreateOrderOutput struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total_amount"`
	// 冪等キーで既存の注文を返した
	Replayed bool `json:"replayed"`
}

type OrderItemOutput struct {
	model.OrderItem
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
}

type OrderDetail struct {
	model.Order
	AccountName string            `json:"account_name"`
	Items       []OrderItemOutput `json:"items"`
}

type OrderListInput struct {
	Status    string
	AccountID string
	Limit     int
}

func (u *OrderUsecase) mode() string {
	if u.Tx != nil {
		return metrics.ModeAtomic
	}
	return metrics.ModeSaga
}

// CreateOrder は価格をサーバー側で決めて、ヘッダと明細を書く。
// Txがあれば1トランザクション、なければヘッダ削除で補償する。
func (u *OrderUsecase) CreateOrder(ctx context.Context, actorID string, in CreateOrderInput) (CreateOrderOutput, error) {
	out, err := u.createOrder(ctx, actorID, in)
	if err != nil {
		if ae, ok := AsAppError(err); ok {
			u.Metrics.OrderCreateFailed(string(ae.Kind))
		}
		return CreateOrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) createOrder(ctx context.Context, actorID string, in CreateOrderInput) (CreateOrderOutput, error) {
	accountID := strings.TrimSpace(in.AccountID)
	if accountID == "" {
		return CreateOrderOutput{}, NewValidationError("account_id is required")
	}
	lines := pricing.ValidLines(in.Lines)
	if len(lines) == 0 {
		return CreateOrderOutput{}, NewValidationError(pricing.ErrNoLines.Error())
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && u.opts.Idempotency != nil {
		if len(key) > 255 {
			return CreateOrderOutput{}, NewValidationError("invalid idempotency key")
		}
		replay, err := u.beginIdempotent(ctx, actorID, key)
		if err != nil {
			return CreateOrderOutput{}, err
		}
		if replay != nil {
			return *replay, nil
		}
	} else {
		key = ""
	}

	out, err := u.placeOrder(ctx, actorID, accountID, lines, in)
	if key != "" {
		if err != nil {
			if rerr := u.opts.Idempotency.Release(ctx, actorID, key); rerr != nil {
				u.Log.Warn("idempotency release failed", zap.String("key", key), zap.Error(rerr))
			}
		} else if cerr := u.opts.Idempotency.Complete(ctx, actorID, key, out.ID); cerr != nil {
			u.Log.Warn("idempotency complete failed", zap.String("key", key), zap.Error(cerr))
		}
	}
	return out, err
}

// キーを確保する。完了済みなら前回の注文を返す。
// 前回の注文が削除済みならキーを解放して作り直す
func (u *OrderUsecase) beginIdempotent(ctx context.Context, actorID, key string) (*CreateOrderOutput, error) {
	idem := u.opts.Idempotency
	for attempt := 0; attempt < 2; attempt++ {
		existingID, started, err := idem.Begin(ctx, actorID, key)
		if errors.Is(err, idempotency.ErrInProgress) {
			return nil, NewConflictError("order with this idempotency key is in progress")
		}
		if err != nil {
			return nil, NewPersistenceError(err)
		}
		if started {
			return nil, nil
		}

		o, err := u.Ledger.Orders().FindByID(ctx, existingID)
		if err == nil {
			return &CreateOrderOutput{ID: o.ID, Total: o.TotalAmount, Replayed: true}, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, NewPersistenceError(err)
		}
		u.Log.Info("replayed order was deleted, releasing idempotency key",
			zap.String("order_id", existingID), zap.String("key", key))
		if err := idem.Release(ctx, actorID, key); err != nil {
			return nil, NewPersistenceError(err)
		}
	}
	return nil, NewConflictError("order with this idempotency key is in progress")
}

func (u *OrderUsecase) placeOrder(ctx context.Context, actorID, accountID string, lines []pricing.LineRequest, in CreateOrderInput) (CreateOrderOutput, error) {
	// 取引先の存在確認（書き込み前）
	if _, err := u.Ledger.Accounts().FindByID(ctx, accountID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CreateOrderOutput{}, NewValidationError("account not found")
		}
		return CreateOrderOutput{}, NewPersistenceError(err)
	}

	// 価格はここで1回だけ読む（明細にはこの値を入れる）
	products, err := u.Ledger.Products().Find(ctx, repo.ProductFilter{IDs: pricing.DistinctProductIDs(lines)})
	if err != nil {
		return CreateOrderOutput{}, NewPersistenceError(err)
	}
	prices := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.UnitPrice
	}

	res, err := pricing.Resolve(lines, prices, pricing.Options{Strict: u.opts.PricingStrict})
	if err != nil {
		return CreateOrderOutput{}, NewValidationError(err.Error())
	}

	now := u.Clock.Now()
	order := model.Order{
		ID:           u.IDs.NewID(),
		AccountID:    accountID,
		Status:       model.OrderStatusPending,
		OrderDate:    now,
		DeliveryDate: in.DeliveryDate,
		TotalAmount:  res.Total,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if actorID != "" {
		order.CreatedBy = &actorID
	}

	items := make([]model.OrderItem, 0, len(res.Lines))
	for i, l := range res.Lines {
		items = append(items, model.OrderItem{
			ID:        u.IDs.NewID(),
			OrderID:   order.ID,
			LineNo:    i + 1,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Subtotal:  l.Subtotal,
			CreatedAt: now,
		})
	}

	if u.Tx != nil {
		err = u.Tx.WithinTx(ctx, func(r repo.Ledger) error {
			if _, err := r.Orders().Create(ctx, order); err != nil {
				return err
			}
			return r.OrderItems().CreateBulk(ctx, order.ID, items)
		})
		if err != nil {
			u.Log.Error("create order failed", zap.String("account_id", accountID), zap.Error(err))
			return CreateOrderOutput{}, NewPersistenceError(err)
		}
	} else if err := u.writeWithCompensation(ctx, order, items); err != nil {
		return CreateOrderOutput{}, err
	}

	u.Metrics.OrderCreated(u.mode())
	u.audit(ctx, actorID, model.AuditActionCreateOrder, model.AuditResourceOrder, order.ID, nil, order)

	return CreateOrderOutput{ID: order.ID, Total: order.TotalAmount}, nil
}

// ヘッダ→明細の順に書き、明細が失敗したらヘッダを消す
func (u *OrderUsecase) writeWithCompensation(ctx context.Context, order model.Order, items []model.OrderItem) error {
	if _, err := u.Ledger.Orders().Create(ctx, order); err != nil {
		u.Log.Error("create order header failed", zap.String("account_id", order.AccountID), zap.Error(err))
		return NewPersistenceError(err)
	}

	itemErr := u.Ledger.OrderItems().CreateBulk(ctx, order.ID, items)
	if itemErr == nil {
		return nil
	}

	// 呼び出し元がキャンセルしていても補償は走らせる
	compCtx := context.WithoutCancel(ctx)
	if delErr := u.Ledger.Orders().Delete(compCtx, order.ID); delErr != nil {
		u.Metrics.Compensation(metrics.CompensationFailed)
		u.Log.Error("order compensation failed, header left behind",
			zap.String("order_id", order.ID),
			zap.NamedError("item_error", itemErr),
			zap.NamedError("compensation_error", delErr),
		)
		return NewPersistenceError(errors.Join(itemErr, delErr))
	}

	u.Metrics.Compensation(metrics.CompensationOK)
	u.Log.Warn("order items failed, header removed", zap.String("order_id", order.ID), zap.Error(itemErr))
	return NewPersistenceError(itemErr)
}

// 注文1件（明細・商品名・取引先名つき）
func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (OrderDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return OrderDetail{}, NewValidationError("invalid id")
	}

	o, err := u.Ledger.Orders().FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderDetail{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return OrderDetail{}, NewPersistenceError(err)
	}

	details, err := attachDetails(ctx, u.Ledger, []model.Order{o}, true)
	if err != nil {
		return OrderDetail{}, err
	}
	return details[0], nil
}

// 新しい順。status/account_idで絞り込み、Limit 0は全件
func (u *OrderUsecase) ListOrders(ctx context.Context, in OrderListInput) ([]OrderDetail, error) {
	f := repo.OrderFilter{Limit: in.Limit}
	if in.Limit < 0 {
		return []OrderDetail{}, NewValidationError("invalid limit")
	}
	if s := strings.TrimSpace(in.Status); s != "" {
		st := model.OrderStatus(s)
		if !st.Valid() {
			return []OrderDetail{}, NewValidationError("invalid status")
		}
		f.Statuses = []model.OrderStatus{st}
	}
	if a := strings.TrimSpace(in.AccountID); a != "" {
		f.AccountID = &a
	}

	orders, err := u.Ledger.Orders().Find(ctx, f)
	if err != nil {
		return []OrderDetail{}, NewPersistenceError(err)
	}
	return attachDetails(ctx, u.Ledger, orders, true)
}

// ダッシュボード用。明細は付けない
func (u *OrderUsecase) ListRecentOrders(ctx context.Context, limit int) ([]OrderDetail, error) {
	if limit <= 0 {
		limit = defaultRecentOrders
	}
	orders, err := u.Ledger.Orders().Find(ctx, repo.OrderFilter{Limit: limit})
	if err != nil {
		return []OrderDetail{}, NewPersistenceError(err)
	}
	return attachDetails(ctx, u.Ledger, orders, false)
}

// 取引先名と明細をまとめて読む（注文ごとに取りにいかない）
func attachDetails(ctx context.Context, l repo.Ledger, orders []model.Order, withItems bool) ([]OrderDetail, error) {
	out := make([]OrderDetail, 0, len(orders))
	if len(orders) == 0 {
		return out, nil
	}

	accountIDs := make([]string, 0, len(orders))
	seen := map[string]struct{}{}
	for _, o := range orders {
		if _, ok := seen[o.AccountID]; ok {
			continue
		}
		seen[o.AccountID] = struct{}{}
		accountIDs = append(accountIDs, o.AccountID)
	}
	accounts, err := l.Accounts().Find(ctx, repo.AccountFilter{IDs: accountIDs})
	if err != nil {
		return []OrderDetail{}, NewPersistenceError(err)
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	for _, o := range orders {
		d := OrderDetail{Order: o, AccountName: names[o.AccountID], Items: []OrderItemOutput{}}
		if withItems {
			items, err := itemsOf(ctx, l, o.ID)
			if err != nil {
				return []OrderDetail{}, err
			}
			d.Items = items
		}
		out = append(out, d)
	}
	return out, nil
}

func itemsOf(ctx context.Context, l repo.Ledger, orderID string) ([]OrderItemOutput, error) {
	items, err := l.OrderItems().Find(ctx, repo.OrderItemFilter{OrderID: &orderID})
	if err != nil {
		return nil, NewPersistenceError(err)
	}

	productIDs := make([]string, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}
	byID := map[string]model.Product{}
	if len(productIDs) > 0 {
		products, err := l.Products().Find(ctx, repo.ProductFilter{IDs: productIDs})
		if err != nil {
			return nil, NewPersistenceError(err)
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	out := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		p := byID[it.ProductID]
		out = append(out, OrderItemOutput{OrderItem: it, ProductName: p.Name, SKU: p.SKU})
	}
	return out, nil
}

// 物理削除（キャンセルとは別）。明細→ヘッダの順。状態は問わない
func (u *OrderUsecase) DeleteOrder(ctx context.Context, actorID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewValidationError("invalid id")
	}

	var before model.Order
	err := u.within(ctx, func(r repo.Ledger) error {
		o, err := r.Orders().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}
		before = o

		if err := r.OrderItems().DeleteByOrderID(ctx, id); err != nil {
			return NewPersistenceError(err)
		}
		if err := r.Orders().Delete(ctx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("order not found")
			}
			return NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.audit(ctx, actorID, model.AuditActionDeleteOrder, model.AuditResourceOrder, id, before, nil)
	return nil
}
