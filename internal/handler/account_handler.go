package handler

import (
	"net/http"

	"github.com/ModawnAI/lotte-crm/internal/middleware"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/accounts
type AccountHandler struct {
	uc *usecase.AccountUsecase
}

func NewAccountHandler(uc *usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

func (h *AccountHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/accounts", h.list)
	api.POST("/accounts", h.create)
	api.GET("/accounts/:id", h.detail)
	api.PUT("/accounts/:id", h.update)
	api.DELETE("/accounts/:id", h.delete, middleware.AdminRoleGuard())
}

func (h *AccountHandler) list(c echo.Context) error {
	limit, valid := queryLimit(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid limit")
	}

	out, err := h.uc.List(c.Request().Context(), usecase.AccountListInput{
		SalesRepID: c.QueryParam("sales_rep_id"),
		Type:       c.QueryParam("type"),
		Tier:       c.QueryParam("tier"),
		Limit:      limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) create(c echo.Context) error {
	var req usecase.AccountInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	a, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, a.ID)
}

func (h *AccountHandler) update(c echo.Context) error {
	var req usecase.AccountInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	a, err := h.uc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, a.ID)
}

func (h *AccountHandler) delete(c echo.Context) error {
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
