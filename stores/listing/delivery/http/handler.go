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
	listing marketplace.ListingUseCase
}

func New(e *echo.Echo, listing marketplace.ListingUseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{listing}

	g := e.Group("/marketplace/:chainId/:contract/:tokenId")

	g.GET("/listing", h.get)
	g.POST("/listing", h.create, am.Auth())
	g.DELETE("/listing", h.cancel, am.Auth())
	g.POST("/buy", h.buy, am.Auth())
}

func statusOf(err error) int {
	switch err {
	case domain.ErrNotOwner, domain.ErrNotAuthorized:
		return http.StatusForbidden
	case domain.ErrNotApproved, domain.ErrPriceTooLow, domain.ErrInvalidPrice, domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrAlreadyListed, domain.ErrAlreadyOnAuction, domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrNotListed, domain.ErrNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	id := marketplace.Id{}
	if err := c.Bind(&id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	listing, err := h.listing.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listing)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := marketplace.CreateListingPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p.Seller = c.Get("address").(domain.Address)

	listing, err := h.listing.Create(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, listing)
}

func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := marketplace.BuyListingPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p.Buyer = c.Get("address").(domain.Address)

	sale, err := h.listing.Buy(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, sale)
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	id := marketplace.Id{}
	if err := c.Bind(&id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	caller := c.Get("address").(domain.Address)

	if err := h.listing.Cancel(ctx, id, caller); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
