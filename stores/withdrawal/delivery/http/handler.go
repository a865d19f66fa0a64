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
	withdrawal marketplace.WithdrawalUseCase
}

func New(e *echo.Echo, withdrawal marketplace.WithdrawalUseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{withdrawal}

	e.GET("/withdrawals/:chainId/:address", h.getPending)
	e.POST("/withdrawals/:chainId", h.withdraw, am.Auth())
}

func (h *handler) getPending(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		ChainId domain.ChainId `param:"chainId"`
		Address domain.Address `param:"address"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	pending, err := h.withdrawal.GetPending(ctx, p.ChainId, p.Address.ToLower())
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Pending        domain.Amount `json:"pending"`
		DisplayPending string        `json:"displayPending"`
	}{
		Pending:        pending,
		DisplayPending: pending.Display(),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		ChainId domain.ChainId `param:"chainId"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	caller := c.Get("address").(domain.Address)

	amount, err := h.withdrawal.Withdraw(ctx, p.ChainId, caller.ToLower())
	if err == domain.ErrNothingToWithdraw {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
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
