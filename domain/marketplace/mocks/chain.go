package mocks

import (
	"math/big"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/stretchr/testify/mock"
)

type TokenRegistry struct {
	mock.Mock
}

func (m *TokenRegistry) OwnerOf(c ctx.Ctx, id marketplace.Id) (domain.Address, error) {
	ret := m.Called(c, id)
	return ret.Get(0).(domain.Address), ret.Error(1)
}

func (m *TokenRegistry) IsApprovedOrOperator(c ctx.Ctx, id marketplace.Id, owner, operator domain.Address) (bool, error) {
	ret := m.Called(c, id, owner, operator)
	return ret.Bool(0), ret.Error(1)
}

func (m *TokenRegistry) SafeTransfer(c ctx.Ctx, id marketplace.Id, from, to domain.Address) error {
	ret := m.Called(c, id, from, to)
	return ret.Error(0)
}

type RoyaltyProvider struct {
	mock.Mock
}

func (m *RoyaltyProvider) RoyaltyInfo(c ctx.Ctx, id marketplace.Id, salePrice *big.Int) (domain.Address, *big.Int, error) {
	ret := m.Called(c, id, salePrice)

	var r1 *big.Int
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*big.Int)
	}
	return ret.Get(0).(domain.Address), r1, ret.Error(2)
}

type PayoutService struct {
	mock.Mock
}

func (m *PayoutService) Transfer(c ctx.Ctx, chainId domain.ChainId, to domain.Address, amount *big.Int) error {
	ret := m.Called(c, chainId, to, amount)
	return ret.Error(0)
}

func (m *PayoutService) Balance(c ctx.Ctx, chainId domain.ChainId) (*big.Int, error) {
	ret := m.Called(c, chainId)

	var r0 *big.Int
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*big.Int)
	}
	return r0, ret.Error(1)
}

func (m *PayoutService) SweepErc20(c ctx.Ctx, chainId domain.ChainId, token, to domain.Address) error {
	ret := m.Called(c, chainId, token, to)
	return ret.Error(0)
}
