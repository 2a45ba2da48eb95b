package handler

import (
	"net/http"

	"github.com/ModawnAI/lotte-crm/internal/middleware"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/sales-reps
type SalesRepHandler struct {
	uc *usecase.SalesRepUsecase
}

func NewSalesRepHandler(uc *usecase.SalesRepUsecase) *SalesRepHandler {
	return &SalesRepHandler{uc: uc}
}

func (h *SalesRepHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/sales-reps", h.list)
	api.POST("/sales-reps", h.create)
	api.GET("/sales-reps/:id", h.detail)
	api.PUT("/sales-reps/:id", h.update)
	api.DELETE("/sales-reps/:id", h.delete, middleware.AdminRoleGuard())
}

func (h *SalesRepHandler) list(c echo.Context) error {
	limit, valid := queryLimit(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid limit")
	}
	activeOnly, valid := queryBool(c, "active")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid active")
	}

	out, err := h.uc.List(c.Request().Context(), usecase.SalesRepListInput{
		ActiveOnly: activeOnly,
		Region:     c.QueryParam("region"),
		Limit:      limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SalesRepHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SalesRepHandler) create(c echo.Context) error {
	var req usecase.SalesRepInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	r, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, r.ID)
}

func (h *SalesRepHandler) update(c echo.Context) error {
	var req usecase.SalesRepInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	r, err := h.uc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, r.ID)
}

// 担当取引先が残っていれば409
func (h *SalesRepHandler) delete(c echo.Context) error {
	adminID, authed := getUserIDFromContext(c)
	if !authed {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	id := c.Param("id")
	if err := h.uc.Delete(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, id)
}
