package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/delivery"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
)

type handler struct {
	eventRepo marketplace.EventRepo
}

func New(e *echo.Echo, eventRepo marketplace.EventRepo) {
	h := &handler{eventRepo}

	e.GET("/marketplace/:chainId/:contract/:tokenId/events", h.list)
}

// list feeds external indexers, newest first.
func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		marketplace.Id
		Type   *marketplace.EventType `query:"type"`
		Offset int32                  `query:"offset"`
		Limit  int32                  `query:"limit"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if p.Limit == 0 || p.Limit > 100 {
		p.Limit = 100
	}

	opts := []marketplace.FindAllOptionsFunc{
		marketplace.WithToken(p.Id.ToLower()),
		marketplace.WithPagination(p.Offset, p.Limit),
		marketplace.WithSort("time", domain.SortDirDesc),
	}

	if p.Type != nil {
		opts = append(opts, marketplace.WithEventType(*p.Type))
	}

	events, err := h.eventRepo.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, events)
}
