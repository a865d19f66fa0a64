package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/delivery"
	"github.com/niftybay/goapi/domain"
)

type AuthMiddleware struct {
	auth           domain.AuthUsecase
	adminAddresses []string
}

func New(auth domain.AuthUsecase, adminAddresses []string) *AuthMiddleware {
	lowered := make([]string, len(adminAddresses))
	for i, a := range adminAddresses {
		lowered[i] = domain.Address(a).ToLowerStr()
	}
	return &AuthMiddleware{
		auth:           auth,
		adminAddresses: lowered,
	}
}

func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuth(m.validateAuthToken)
}

func (m *AuthMiddleware) IsAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			address := c.Get("address").(domain.Address)

			for _, admin := range m.adminAddresses {
				if admin == address.ToLowerStr() {
					return next(c)
				}
			}

			return delivery.MakeJsonResp(c, http.StatusMethodNotAllowed, "require admin privilege")
		}
	}
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	if ads, err := m.auth.ParseToken(ctx, key); err != nil {
		ctx.WithField("err", err).Error("auth.ParseToken failed")
		return false, err
	} else {
		c.Set("address", domain.Address(ads))
		return true, nil
	}
}
