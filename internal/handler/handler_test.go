package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/config"
	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	"github.com/ModawnAI/lotte-crm/internal/handler"
	"github.com/ModawnAI/lotte-crm/internal/infra/memory"
	"github.com/ModawnAI/lotte-crm/internal/metrics"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
	"github.com/ModawnAI/lotte-crm/internal/server"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type apiResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ID      string `json:"id"`
}

type testApp struct {
	e       *echo.Echo
	store   *memory.Store
	metrics *metrics.Metrics
	user    string
	admin   string
}

func newTestApp(t *testing.T, l repo.Ledger, store *memory.Store) *testApp {
	t.Helper()

	cfg := config.Config{JWTSecret: testSecret}
	m := metrics.New()
	deps := usecase.Deps{Ledger: l, Metrics: m}

	e := server.New(cfg, server.Options{Metrics: m},
		handler.NewAccountHandler(usecase.NewAccountUsecase(deps)),
		handler.NewProductHandler(usecase.NewProductUsecase(deps)),
		handler.NewSalesRepHandler(usecase.NewSalesRepUsecase(deps)),
		handler.NewOrderHandler(usecase.NewOrderUsecase(deps, usecase.OrderOptions{})),
		handler.NewOrderStatusHandler(usecase.NewOrderStatusUsecase(deps)),
		handler.NewStatsHandler(usecase.NewStatsUsecase(deps, time.UTC)),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(deps)),
	)

	return &testApp{
		e:       e,
		store:   store,
		metrics: m,
		user:    signToken(t, "user-1", "USER"),
		admin:   signToken(t, "admin-1", "ADMIN"),
	}
}

func newMemoryApp(t *testing.T) *testApp {
	s := memory.NewStore()
	return newTestApp(t, s, s)
}

func signToken(t *testing.T, sub, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (a *testApp) do(t *testing.T, token, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testApp) mustCreate(t *testing.T, path string, body any) string {
	t.Helper()
	rec := a.do(t, a.user, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[apiResult](t, rec)
	require.True(t, res.Success)
	require.NotEmpty(t, res.ID)
	return res.ID
}

type fixture struct {
	repID, accountID, p1, p2 string
}

func (a *testApp) seed(t *testing.T) fixture {
	t.Helper()
	var f fixture
	f.repID = a.mustCreate(t, "/api/sales-reps", map[string]any{"name": "김민수", "region": "서울"})
	f.accountID = a.mustCreate(t, "/api/accounts", map[string]any{
		"name": "한빛마트", "type": "retailer", "assigned_sales_rep_id": f.repID,
	})
	f.p1 = a.mustCreate(t, "/api/products", map[string]any{
		"name": "사이다", "sku": "CID-1", "category": "carbonated", "unit_price": "1000",
	})
	f.p2 = a.mustCreate(t, "/api/products", map[string]any{
		"name": "오렌지주스", "sku": "JUC-1", "category": "juice", "unit_price": "2000",
	})
	return f
}

func (a *testApp) placeOrder(t *testing.T, f fixture, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, a.user, http.MethodPost, "/api/orders", map[string]any{
		"account_id":    f.accountID,
		"delivery_date": "2024-04-01",
		"items": []map[string]any{
			{"product_id": f.p1, "quantity": 2, "discount": 0},
			{"product_id": f.p2, "quantity": 1, "discount": 50},
		},
	}, headers...)
}

// =====================
// 認証・公開ルート
// =====================

func TestServer_PublicRoutes(t *testing.T) {
	a := newMemoryApp(t)

	rec := a.do(t, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, "", http.MethodGet, "/api/accounts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode[apiResult](t, rec).Error)
}

func TestServer_MetricsExposeOrderCounters(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)
	require.Equal(t, http.StatusCreated, a.placeOrder(t, f).Code)

	rec := a.do(t, "", http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `crm_orders_created_total{mode="saga"} 1`)
}

// =====================
// 注文
// =====================

func TestOrderHandler_CreateAndGet(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)

	rec := a.placeOrder(t, f)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[apiResult](t, rec).ID

	rec = a.do(t, a.user, http.MethodGet, "/api/orders/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	type item struct {
		ProductID   string          `json:"product_id"`
		ProductName string          `json:"product_name"`
		UnitPrice   decimal.Decimal `json:"unit_price"`
		Subtotal    decimal.Decimal `json:"subtotal"`
	}
	got := decode[struct {
		ID          string          `json:"id"`
		Status      string          `json:"status"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		AccountName string          `json:"account_name"`
		CreatedBy   *string         `json:"created_by"`
		Items       []item          `json:"items"`
	}](t, rec)

	assert.Equal(t, "pending", got.Status)
	assert.True(t, decimal.NewFromInt(3000).Equal(got.TotalAmount), got.TotalAmount.String())
	assert.Equal(t, "한빛마트", got.AccountName)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "user-1", *got.CreatedBy)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "사이다", got.Items[0].ProductName)
	assert.True(t, decimal.NewFromInt(1000).Equal(got.Items[1].Subtotal))
}

func TestOrderHandler_CreateValidation(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)

	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"no items", map[string]any{"account_id": f.accountID, "items": []any{}}, "at least one order line is required"},
		{"zero quantity only", map[string]any{"account_id": f.accountID, "items": []map[string]any{{"product_id": f.p1, "quantity": 0}}}, "at least one order line is required"},
		{"no account", map[string]any{"items": []map[string]any{{"product_id": f.p1, "quantity": 1}}}, "account_id is required"},
		{"bad date", map[string]any{"account_id": f.accountID, "delivery_date": "tomorrow"}, "invalid delivery_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, a.user, http.MethodPost, "/api/orders", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			res := decode[apiResult](t, rec)
			assert.False(t, res.Success)
			assert.Equal(t, tc.want, res.Error)
		})
	}

	orders, err := a.store.Orders().Find(context.Background(), repo.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderHandler_ListAndRecent(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, a.placeOrder(t, f).Code)
	}

	rec := a.do(t, a.user, http.MethodGet, "/api/orders?status=pending&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 2)

	rec = a.do(t, a.user, http.MethodGet, "/api/orders?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, a.user, http.MethodGet, "/api/orders?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, a.user, http.MethodGet, "/api/orders/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 3)
}

func TestOrderHandler_StatusFlow(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)
	id := decode[apiResult](t, a.placeOrder(t, f)).ID

	for _, st := range []string{"confirmed", "shipped"} {
		rec := a.do(t, a.user, http.MethodPut, "/api/orders/"+id+"/status", map[string]string{"status": st})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, id, decode[apiResult](t, rec).ID)
	}

	// 発送後は取消しできない
	rec := a.do(t, a.user, http.MethodPost, "/api/orders/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, a.user, http.MethodPut, "/api/orders/"+id+"/status", map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, a.user, http.MethodPut, "/api/orders/missing/status", map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_DeleteIsAdminOnly(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)
	id := decode[apiResult](t, a.placeOrder(t, f)).ID

	rec := a.do(t, a.user, http.MethodDelete, "/api/orders/"+id, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, a.admin, http.MethodDelete, "/api/orders/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, a.user, http.MethodGet, "/api/orders/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	items, err := a.store.OrderItems().Find(context.Background(), repo.OrderItemFilter{OrderID: &id})
	require.NoError(t, err)
	assert.Empty(t, items)
}

// =====================
// ストア障害
// =====================

type failingOrders struct {
	repo.OrderRepository
}

func (failingOrders) Find(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	return nil, errors.New("connection reset")
}

type failingLedger struct {
	*memory.Store
}

func (l failingLedger) Orders() repo.OrderRepository {
	return failingOrders{OrderRepository: l.Store.Orders()}
}

func TestHandler_StoreFailure(t *testing.T) {
	s := memory.NewStore()
	a := newTestApp(t, failingLedger{Store: s}, s)

	// 一覧は500で原因を出さない
	rec := a.do(t, a.user, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	res := decode[apiResult](t, rec)
	assert.Equal(t, "db error", res.Error)
	assert.NotContains(t, rec.Body.String(), "connection reset")

	// 集計はゼロ値で返す
	rec = a.do(t, a.user, http.MethodGet, "/api/stats/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[usecase.OrderStats](t, rec)
	assert.Equal(t, 0, st.Total)
	assert.Len(t, st.ByStatus, len(model.AllOrderStatuses()))
}

// =====================
// 営業担当の削除ガード
// =====================

func TestSalesRepHandler_DeleteGuard(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)

	rec := a.do(t, a.user, http.MethodDelete, "/api/sales-reps/"+f.repID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, a.admin, http.MethodDelete, "/api/sales-reps/"+f.repID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[apiResult](t, rec).Error, "assigned accounts")

	rec = a.do(t, a.user, http.MethodGet, "/api/sales-reps/"+f.repID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 担当を外せば消せる
	rec = a.do(t, a.user, http.MethodPut, "/api/accounts/"+f.accountID, map[string]any{"assigned_sales_rep_id": ""})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, a.admin, http.MethodDelete, "/api/sales-reps/"+f.repID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, a.user, http.MethodGet, "/api/sales-reps/"+f.repID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMasterDataHandlers_Conflicts(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)
	require.Equal(t, http.StatusCreated, a.placeOrder(t, f).Code)

	// 同じSKU
	rec := a.do(t, a.user, http.MethodPost, "/api/products", map[string]any{
		"name": "사이다2", "sku": "CID-1", "category": "carbonated", "unit_price": "900",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 注文で使われている商品・注文のある取引先は消せない
	rec = a.do(t, a.admin, http.MethodDelete, "/api/products/"+f.p1, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = a.do(t, a.admin, http.MethodDelete, "/api/accounts/"+f.accountID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, a.user, http.MethodPost, "/api/accounts", "not-an-object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMasterDataHandlers_ListFilters(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)

	rec := a.do(t, a.user, http.MethodPut, "/api/products/"+f.p2, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, a.user, http.MethodGet, "/api/products?active=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 1)

	rec = a.do(t, a.user, http.MethodGet, "/api/products?active=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, a.user, http.MethodGet, "/api/accounts?sales_rep_id="+f.repID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 1)

	rec = a.do(t, a.user, http.MethodGet, "/api/accounts?tier=diamond", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, a.user, http.MethodGet, "/api/sales-reps?region="+url.QueryEscape("서울"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 1)
}

// =====================
// 集計・監査ログ
// =====================

func TestStatsHandler_Dashboard(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)
	id := decode[apiResult](t, a.placeOrder(t, f)).ID
	for _, st := range []string{"confirmed", "shipped", "delivered"} {
		require.Equal(t, http.StatusOK, a.do(t, a.user, http.MethodPut, "/api/orders/"+id+"/status", map[string]string{"status": st}).Code)
	}

	rec := a.do(t, a.user, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[usecase.Dashboard](t, rec)

	assert.Equal(t, 1, d.Accounts.Total)
	assert.Equal(t, 2, d.Products.Total)
	assert.Equal(t, 1, d.SalesReps.Active)
	require.Len(t, d.Performance, 1)
	assert.Equal(t, f.repID, d.Performance[0].ID)
	assert.Equal(t, 1, d.Performance[0].AccountCount)
	require.Len(t, d.RecentOrders, 1)
	assert.Equal(t, id, d.RecentOrders[0].ID)
	assert.Equal(t, "한빛마트", d.RecentOrders[0].AccountName)

	rec = a.do(t, a.user, http.MethodGet, "/api/stats/sales-reps/performance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	perf := decode[[]usecase.RepPerformance](t, rec)
	require.Len(t, perf, 1)

	for _, p := range []string{"/api/stats/accounts", "/api/stats/products", "/api/stats/sales-reps"} {
		assert.Equal(t, http.StatusOK, a.do(t, a.user, http.MethodGet, p, nil).Code, p)
	}
}

func TestAuditLogHandler_List(t *testing.T) {
	a := newMemoryApp(t)
	f := a.seed(t)
	id := decode[apiResult](t, a.placeOrder(t, f)).ID
	require.Equal(t, http.StatusOK, a.do(t, a.user, http.MethodPost, "/api/orders/"+id+"/cancel", nil).Code)

	rec := a.do(t, a.user, http.MethodGet, "/api/audit-logs", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, a.admin, http.MethodGet, "/api/audit-logs?resource_type=order&resource_id="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	logs := decode[[]model.AuditLog](t, rec)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logs[0].Action)
	assert.Equal(t, "user-1", logs[0].ActorID)
	assert.True(t, strings.Contains(logs[0].AfterJSON, "cancelled"))

	rec = a.do(t, a.admin, http.MethodGet, "/api/audit-logs?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, a.admin, http.MethodGet, "/api/audit-logs?offset=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
