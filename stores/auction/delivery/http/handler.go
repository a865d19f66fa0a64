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
	auction marketplace.AuctionUseCase
}

func New(e *echo.Echo, auction marketplace.AuctionUseCase, am *authMiddleware.AuthMiddleware) {
	h := &handler{auction}

	g := e.Group("/marketplace/:chainId/:contract/:tokenId/auction")

	g.GET("", h.get)
	g.POST("", h.create, am.Auth())
	g.DELETE("", h.cancel, am.Auth())
	g.POST("/bid", h.placeBid, am.Auth())
	g.POST("/result", h.result, am.Auth())
	g.GET("/time-remaining", h.timeRemaining)
}

func statusOf(err error) int {
	switch err {
	case domain.ErrNotOwner, domain.ErrNotAuthorized:
		return http.StatusForbidden
	case domain.ErrNotApproved, domain.ErrBidTooLow, domain.ErrSelfBid, domain.ErrInvalidPrice,
		domain.ErrInvalidDuration, domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrAlreadyListed, domain.ErrAlreadyOnAuction, domain.ErrAuctionEnded,
		domain.ErrAuctionNotEnded, domain.ErrAuctionHasBids, domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrNoAuction, domain.ErrNotFound:
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

	auction, err := h.auction.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, auction)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := marketplace.CreateAuctionPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p.Seller = c.Get("address").(domain.Address)

	auction, err := h.auction.Create(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, auction)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := marketplace.PlaceBidPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p.Bidder = c.Get("address").(domain.Address)

	auction, err := h.auction.PlaceBid(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, auction)
}

func (h *handler) result(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	id := marketplace.Id{}
	if err := c.Bind(&id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	caller := c.Get("address").(domain.Address)

	result, err := h.auction.Result(ctx, id, caller)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, result)
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	id := marketplace.Id{}
	if err := c.Bind(&id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	caller := c.Get("address").(domain.Address)

	if err := h.auction.Cancel(ctx, id, caller); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) timeRemaining(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	id := marketplace.Id{}
	if err := c.Bind(&id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	remaining, err := h.auction.TimeRemaining(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}

	res := struct {
		Seconds int64 `json:"seconds"`
	}{
		Seconds: int64(remaining.Seconds()),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
