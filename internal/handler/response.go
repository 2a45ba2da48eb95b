package handler

import (
	"net/http"
	"strconv"

	"github.com/ModawnAI/lotte-crm/internal/middleware"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 書き込み系の戻り値 { success, error?, id? }
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	ID      string `json:"id,omitempty"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Result{Error: msg})
}

func ok(c echo.Context, id string) error {
	return c.JSON(http.StatusOK, Result{Success: true, ID: id})
}

func created(c echo.Context, id string) error {
	return c.JSON(http.StatusCreated, Result{Success: true, ID: id})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := usecase.AsAppError(err); ok {
		if ae.Kind == usecase.KindPersistence {
			zap.L().Error("store failure",
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(ae.Err),
			)
		}
		return fail(c, ae.Status(), ae.Message)
	}

	//500
	zap.L().Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
	return fail(c, http.StatusInternalServerError, "internal error")
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	return middleware.UserID(c)
}

// limitは未指定なら0（件数制限なし）
func queryLimit(c echo.Context) (int, bool) {
	v := c.QueryParam("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func queryBool(c echo.Context, name string) (bool, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return false, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
