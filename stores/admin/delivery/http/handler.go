package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/delivery"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	authMiddleware "github.com/niftybay/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	admin marketplace.AdminUseCase
}

func New(e *echo.Echo, admin marketplace.AdminUseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{admin}

	e.GET("/fee-config", h.getFeeConfig)

	g := e.Group("/fee-config", am.Auth(), am.IsAdmin())
	g.PUT("/recipient", h.setFeeRecipient)
	g.PUT("/bps", h.setFeeBps)
	g.POST("/emergency-withdraw", h.emergencyWithdraw)
	g.POST("/sweep-token", h.sweepToken)
}

func statusOf(err error) int {
	switch err {
	case domain.ErrFeeTooHigh, domain.ErrInvalidAddress, domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *handler) getFeeConfig(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	cfg, err := h.admin.GetFeeConfig(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) setFeeRecipient(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		Recipient domain.Address `json:"recipient" validate:"required"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	cfg, err := h.admin.SetFeeRecipient(ctx, p.Recipient)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) setFeeBps(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		Bps int64 `json:"bps"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	cfg, err := h.admin.SetFeeBps(ctx, p.Bps)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) emergencyWithdraw(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		ChainId domain.ChainId `json:"chainId" validate:"required"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := h.admin.EmergencyWithdraw(ctx, p.ChainId)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}

	res := struct {
		Amount        domain.Amount `json:"amount"`
		DisplayAmount string        `json:"displayAmount"`
	}{
		Amount:        amount,
		DisplayAmount: amount.Display(),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) sweepToken(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		ChainId domain.ChainId `json:"chainId" validate:"required"`
		Token   domain.Address `json:"token" validate:"required"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.admin.SweepErc20(ctx, p.ChainId, p.Token); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
