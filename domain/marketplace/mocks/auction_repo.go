package mocks

import (
	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/stretchr/testify/mock"
)

type AuctionRepo struct {
	mock.Mock
}

func (m *AuctionRepo) FindOne(c ctx.Ctx, id marketplace.Id) (*marketplace.Auction, error) {
	ret := m.Called(c, id)

	var r0 *marketplace.Auction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*marketplace.Auction)
	}
	return r0, ret.Error(1)
}

func (m *AuctionRepo) Insert(c ctx.Ctx, a *marketplace.Auction) error {
	ret := m.Called(c, a)
	return ret.Error(0)
}

func (m *AuctionRepo) Patch(c ctx.Ctx, id marketplace.Id, value marketplace.PatchableAuction) error {
	ret := m.Called(c, id, value)
	return ret.Error(0)
}

func (m *AuctionRepo) FindAll(c ctx.Ctx, opts ...marketplace.FindAllOptionsFunc) ([]*marketplace.Auction, error) {
	args := make([]interface{}, 0, len(opts)+1)
	args = append(args, c)
	for _, opt := range opts {
		args = append(args, opt)
	}
	ret := m.Called(args...)

	var r0 []*marketplace.Auction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*marketplace.Auction)
	}
	return r0, ret.Error(1)
}
