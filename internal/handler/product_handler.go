package handler

import (
	"net/http"

	"github.com/ModawnAI/lotte-crm/internal/middleware"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/products", h.list)
	api.POST("/products", h.create)
	api.GET("/products/:id", h.detail)
	api.PUT("/products/:id", h.update)
	api.DELETE("/products/:id", h.delete, middleware.AdminRoleGuard())
}

func (h *ProductHandler) list(c echo.Context) error {
	limit, valid := queryLimit(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid limit")
	}
	activeOnly, valid := queryBool(c, "active")
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid active")
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ProductListInput{
		ActiveOnly: activeOnly,
		Category:   c.QueryParam("category"),
		Limit:      limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	p, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, p.ID)
}

func (h *ProductHandler) update(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	p, err := h.uc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, p.ID)
}

func (h *ProductHandler) delete(c echo.Context) error {
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
