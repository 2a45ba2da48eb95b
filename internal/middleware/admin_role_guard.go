package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthJWTの後ろで使う。roleが許可リストになければ403
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, errorJSON(forbiddenMessage(roles)))
			}
			return next(c)
		}
	}
}

// 削除と監査ログはADMINだけ
func AdminRoleGuard() echo.MiddlewareFunc {
	return RequireRole(RoleAdmin)
}

func forbiddenMessage(roles []string) string {
	if len(roles) == 1 && roles[0] == RoleAdmin {
		return "admin only"
	}
	return "forbidden"
}
