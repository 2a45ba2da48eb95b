package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 集計は毎回計算し直す。読み込みに失敗したら0で返す（ログは残す）
type StatsUsecase struct {
	Deps
	loc *time.Location
}

func NewStatsUsecase(d Deps, loc *time.Location) *StatsUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &StatsUsecase{Deps: d.withDefaults(), loc: loc}
}

type AccountStats struct {
	Total  int                       `json:"total"`
	ByType map[model.AccountType]int `json:"by_type"`
	ByTier map[model.AccountTier]int `json:"by_tier"`
}

type OrderStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	// deliveredのみ
	Revenue  decimal.Decimal           `json:"revenue"`
	ByStatus map[model.OrderStatus]int `json:"by_status"`
}

type RepPerformance struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Region       string          `json:"region"`
	AccountCount int             `json:"account_count"`
	MonthlySales decimal.Decimal `json:"monthly_sales"`
}

type ProductStats struct {
	Total      int                           `json:"total"`
	Active     int                           `json:"active"`
	ByCategory map[model.ProductCategory]int `json:"by_category"`
}

type SalesRepStats struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	ByRegion map[string]int `json:"by_region"`
}

type Dashboard struct {
	Accounts     AccountStats     `json:"accounts"`
	Orders       OrderStats       `json:"orders"`
	Products     ProductStats     `json:"products"`
	SalesReps    SalesRepStats    `json:"sales_reps"`
	Performance  []RepPerformance `json:"performance"`
	RecentOrders []OrderDetail    `json:"recent_orders"`
}

// 今月1日0時（設定したタイムゾーン）
func (u *StatsUsecase) monthStart() time.Time {
	now := u.Clock.Now().In(u.loc)
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, u.loc)
}

func (u *StatsUsecase) readFailed(what string, err error) {
	u.Log.Error("stats read failed", zap.String("source", what), zap.Error(err))
}

func emptyAccountStats() AccountStats {
	s := AccountStats{
		ByType: make(map[model.AccountType]int, len(model.AllAccountTypes())),
		ByTier: make(map[model.AccountTier]int, len(model.AllAccountTiers())),
	}
	for _, t := range model.AllAccountTypes() {
		s.ByType[t] = 0
	}
	for _, t := range model.AllAccountTiers() {
		s.ByTier[t] = 0
	}
	return s
}

func (u *StatsUsecase) AccountStats(ctx context.Context) AccountStats {
	s := emptyAccountStats()
	accounts, err := u.Ledger.Accounts().Find(ctx, repo.AccountFilter{})
	if err != nil {
		u.readFailed("accounts", err)
		return s
	}

	s.Total = len(accounts)
	for _, a := range accounts {
		s.ByType[a.Type]++
		s.ByTier[a.Tier]++
	}
	return s
}

func emptyOrderStats() OrderStats {
	s := OrderStats{
		Revenue:  decimal.Zero,
		ByStatus: make(map[model.OrderStatus]int, len(model.AllOrderStatuses())),
	}
	for _, st := range model.AllOrderStatuses() {
		s.ByStatus[st] = 0
	}
	return s
}

// 今月作成された注文（created_at基準）
func (u *StatsUsecase) OrderStats(ctx context.Context) OrderStats {
	s := emptyOrderStats()
	from := u.monthStart()
	orders, err := u.Ledger.Orders().Find(ctx, repo.OrderFilter{CreatedFrom: &from})
	if err != nil {
		u.readFailed("orders", err)
		return s
	}

	s.Total = len(orders)
	for _, o := range orders {
		s.ByStatus[o.Status]++
		switch o.Status {
		case model.OrderStatusPending:
			s.Pending++
		case model.OrderStatusDelivered:
			s.Revenue = s.Revenue.Add(o.TotalAmount)
		}
	}
	return s
}

// 稼働中の担当者ごとの担当取引先数と今月の売上。売上の多い順（同額は名前順のまま）
func (u *StatsUsecase) SalesRepPerformance(ctx context.Context) []RepPerformance {
	active := true
	reps, err := u.Ledger.SalesReps().Find(ctx, repo.SalesRepFilter{IsActive: &active})
	if err != nil {
		u.readFailed("sales_reps", err)
		return []RepPerformance{}
	}
	if len(reps) == 0 {
		return []RepPerformance{}
	}

	accountCounts := map[string]int{}
	repOfAccount := map[string]string{}
	accounts, err := u.Ledger.Accounts().Find(ctx, repo.AccountFilter{})
	if err != nil {
		u.readFailed("accounts", err)
	}
	for _, a := range accounts {
		if a.AssignedSalesRepID == nil {
			continue
		}
		accountCounts[*a.AssignedSalesRepID]++
		repOfAccount[a.ID] = *a.AssignedSalesRepID
	}

	sales := map[string]decimal.Decimal{}
	from := u.monthStart()
	orders, err := u.Ledger.Orders().Find(ctx, repo.OrderFilter{
		CreatedFrom: &from,
		Statuses:    []model.OrderStatus{model.OrderStatusConfirmed, model.OrderStatusShipped, model.OrderStatusDelivered},
	})
	if err != nil {
		u.readFailed("orders", err)
	}
	for _, o := range orders {
		if !o.Status.IsAttributable() {
			continue
		}
		repID, ok := repOfAccount[o.AccountID]
		if !ok {
			continue
		}
		sales[repID] = sales[repID].Add(o.TotalAmount)
	}

	out := make([]RepPerformance, 0, len(reps))
	for _, r := range reps {
		out = append(out, RepPerformance{
			ID:           r.ID,
			Name:         r.Name,
			Region:       r.Region,
			AccountCount: accountCounts[r.ID],
			MonthlySales: sales[r.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MonthlySales.GreaterThan(out[j].MonthlySales)
	})
	return out
}

func emptyProductStats() ProductStats {
	s := ProductStats{ByCategory: make(map[model.ProductCategory]int, len(model.AllProductCategories()))}
	for _, c := range model.AllProductCategories() {
		s.ByCategory[c] = 0
	}
	return s
}

func (u *StatsUsecase) ProductStats(ctx context.Context) ProductStats {
	s := emptyProductStats()
	products, err := u.Ledger.Products().Find(ctx, repo.ProductFilter{})
	if err != nil {
		u.readFailed("products", err)
		return s
	}

	s.Total = len(products)
	for _, p := range products {
		s.ByCategory[p.Category]++
		if p.IsActive {
			s.Active++
		}
	}
	return s
}

// 地域が空の担当者はByRegionに入れない
func (u *StatsUsecase) SalesRepStats(ctx context.Context) SalesRepStats {
	s := SalesRepStats{ByRegion: map[string]int{}}
	reps, err := u.Ledger.SalesReps().Find(ctx, repo.SalesRepFilter{})
	if err != nil {
		u.readFailed("sales_reps", err)
		return s
	}

	s.Total = len(reps)
	for _, r := range reps {
		if r.Region != "" {
			s.ByRegion[r.Region]++
		}
		if r.IsActive {
			s.Active++
		}
	}
	return s
}

// 最近の注文は/orders/recentと同じ形（取引先名つき、明細なし）
func (u *StatsUsecase) Dashboard(ctx context.Context) Dashboard {
	return Dashboard{
		Accounts:     u.AccountStats(ctx),
		Orders:       u.OrderStats(ctx),
		Products:     u.ProductStats(ctx),
		SalesReps:    u.SalesRepStats(ctx),
		Performance:  u.SalesRepPerformance(ctx),
		RecentOrders: u.recentOrders(ctx),
	}
}

func (u *StatsUsecase) recentOrders(ctx context.Context) []OrderDetail {
	orders, err := u.Ledger.Orders().Find(ctx, repo.OrderFilter{Limit: defaultRecentOrders})
	if err != nil {
		u.readFailed("recent_orders", err)
		return []OrderDetail{}
	}
	recent, err := attachDetails(ctx, u.Ledger, orders, false)
	if err != nil {
		u.readFailed("recent_orders", err)
		return []OrderDetail{}
	}
	return recent
}
