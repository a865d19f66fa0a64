package mocks

import (
	"math/big"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/stretchr/testify/mock"
)

type SettlementUseCase struct {
	mock.Mock
}

func (m *SettlementUseCase) Settle(c ctx.Ctx, id marketplace.Id, seller domain.Address, price *big.Int) (*marketplace.Payouts, error) {
	ret := m.Called(c, id, seller, price)

	var r0 *marketplace.Payouts
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*marketplace.Payouts)
	}
	return r0, ret.Error(1)
}

type FeeConfigRepo struct {
	mock.Mock
}

func (m *FeeConfigRepo) Get(c ctx.Ctx) (*marketplace.FeeConfig, error) {
	ret := m.Called(c)

	var r0 *marketplace.FeeConfig
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*marketplace.FeeConfig)
	}
	return r0, ret.Error(1)
}

func (m *FeeConfigRepo) Upsert(c ctx.Ctx, cfg *marketplace.FeeConfig) error {
	ret := m.Called(c, cfg)
	return ret.Error(0)
}
