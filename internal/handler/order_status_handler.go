package handler

import (
	"net/http"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderStatusHandler struct {
	uc *usecase.OrderStatusUsecase
}

func NewOrderStatusHandler(uc *usecase.OrderStatusUsecase) *OrderStatusHandler {
	return &OrderStatusHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *OrderStatusHandler) RegisterRoutes(api *echo.Group) {
	api.PUT("/orders/:id/status", h.updateStatus)
	api.POST("/orders/:id/cancel", h.cancel)
}

func (h *OrderStatusHandler) updateStatus(c echo.Context) error {
	userID, authed := getUserIDFromContext(c)
	if !authed {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Transition(c.Request().Context(), userID, c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out.ID)
}

func (h *OrderStatusHandler) cancel(c echo.Context) error {
	userID, authed := getUserIDFromContext(c)
	if !authed {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	out, err := h.uc.Cancel(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out.ID)
}
