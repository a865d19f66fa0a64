package mocks

import (
	"math/big"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/stretchr/testify/mock"
)

type WithdrawalRepo struct {
	mock.Mock
}

func (m *WithdrawalRepo) FindOne(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (*marketplace.Withdrawal, error) {
	ret := m.Called(c, chainId, address)

	var r0 *marketplace.Withdrawal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*marketplace.Withdrawal)
	}
	return r0, ret.Error(1)
}

func (m *WithdrawalRepo) Upsert(c ctx.Ctx, w *marketplace.Withdrawal) error {
	ret := m.Called(c, w)
	return ret.Error(0)
}

type WithdrawalUseCase struct {
	mock.Mock
}

func (m *WithdrawalUseCase) Credit(c ctx.Ctx, chainId domain.ChainId, address domain.Address, amount *big.Int) error {
	ret := m.Called(c, chainId, address, amount)
	return ret.Error(0)
}

func (m *WithdrawalUseCase) Withdraw(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (domain.Amount, error) {
	ret := m.Called(c, chainId, address)
	return ret.Get(0).(domain.Amount), ret.Error(1)
}

func (m *WithdrawalUseCase) GetPending(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (domain.Amount, error) {
	ret := m.Called(c, chainId, address)
	return ret.Get(0).(domain.Amount), ret.Error(1)
}
