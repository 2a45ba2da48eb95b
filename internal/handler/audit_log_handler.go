package handler

import (
	"net/http"
	"strconv"

	"github.com/ModawnAI/lotte-crm/internal/middleware"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit-logs", h.list, middleware.AdminRoleGuard())
}

func (h *AuditLogHandler) list(c echo.Context) error {
	in := usecase.AuditLogListInput{
		ActorID:      c.QueryParam("actor_id"),
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   c.QueryParam("resource_id"),
		From:         c.QueryParam("from"),
		To:           c.QueryParam("to"),
	}

	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		in.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid offset")
		}
		in.Offset = n
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
