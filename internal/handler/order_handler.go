package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/pricing"
	"github.com/ModawnAI/lotte-crm/internal/middleware"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// 金額は受け取らない（サーバー側で計算する）
type OrderCreateRequest struct {
	AccountID    string                `json:"account_id"`
	DeliveryDate string                `json:"delivery_date"`
	Notes        *string               `json:"notes"`
	Items        []pricing.LineRequest `json:"items"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/orders", h.create)
	api.GET("/orders", h.list)
	api.GET("/orders/recent", h.recent)
	api.GET("/orders/:id", h.detail)
	api.DELETE("/orders/:id", h.delete, middleware.AdminRoleGuard())
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, authed := getUserIDFromContext(c)
	if !authed {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var delivery *time.Time
	if s := strings.TrimSpace(req.DeliveryDate); s != "" {
		d, ok := parseDate(s)
		if !ok {
			return fail(c, http.StatusBadRequest, "invalid delivery_date")
		}
		delivery = &d
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.uc.CreateOrder(c.Request().Context(), userID, usecase.CreateOrderInput{
		AccountID:      req.AccountID,
		DeliveryDate:   delivery,
		Notes:          req.Notes,
		Lines:          req.Items,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	if out.Replayed {
		return ok(c, out.ID)
	}
	return created(c, out.ID)
}

func (h *OrderHandler) list(c echo.Context) error {
	limit, valid := queryLimit(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid limit")
	}

	out, err := h.uc.ListOrders(c.Request().Context(), usecase.OrderListInput{
		Status:    c.QueryParam("status"),
		AccountID: c.QueryParam("account_id"),
		Limit:     limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) recent(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	out, err := h.uc.ListRecentOrders(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 物理削除。取消しは /orders/:id/cancel
func (h *OrderHandler) delete(c echo.Context) error {
	adminID, authed := getUserIDFromContext(c)
	if !authed {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	id := c.Param("id")
	if err := h.uc.DeleteOrder(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, id)
}

// "2006-01-02" かRFC3339
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
