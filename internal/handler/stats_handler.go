package handler

import (
	"net/http"

	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 集計は読み取り失敗でもゼロ値で200を返す
type StatsHandler struct {
	uc *usecase.StatsUsecase
}

func NewStatsHandler(uc *usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

func (h *StatsHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.dashboard)

	st := api.Group("/stats")
	st.GET("/accounts", h.accounts)
	st.GET("/orders", h.orders)
	st.GET("/products", h.products)
	st.GET("/sales-reps", h.salesReps)
	st.GET("/sales-reps/performance", h.performance)
}

func (h *StatsHandler) dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Dashboard(c.Request().Context()))
}

func (h *StatsHandler) accounts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.AccountStats(c.Request().Context()))
}

func (h *StatsHandler) orders(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.OrderStats(c.Request().Context()))
}

func (h *StatsHandler) products(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.ProductStats(c.Request().Context()))
}

func (h *StatsHandler) salesReps(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.SalesRepStats(c.Request().Context()))
}

func (h *StatsHandler) performance(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.SalesRepPerformance(c.Request().Context()))
}
