package usecase

import (
	"errors"
	"math/big"
	"testing"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/domain/marketplace/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var mockCtx = ctx.Background()

type settlementSuite struct {
	suite.Suite
	feeConfigRepo *mocks.FeeConfigRepo
	royalty       *mocks.RoyaltyProvider
	payout        *mocks.PayoutService
	im            marketplace.SettlementUseCase
}

func TestSettlement(t *testing.T) {
	suite.Run(t, new(settlementSuite))
}

func (s *settlementSuite) SetupTest() {
	s.feeConfigRepo = &mocks.FeeConfigRepo{}
	s.royalty = &mocks.RoyaltyProvider{}
	s.payout = &mocks.PayoutService{}
	s.im = NewSettlementUseCase(s.feeConfigRepo, s.royalty, s.payout)
}

var (
	testId = marketplace.Id{
		ChainId:         1,
		ContractAddress: "0x00000000000000000000000000000000000000aa",
		TokenId:         "7",
	}
	seller       = domain.Address("0x00000000000000000000000000000000000000s1")
	feeRecipient = domain.Address("0x00000000000000000000000000000000000000f1")
	creator      = domain.Address("0x00000000000000000000000000000000000000c1")
)

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal " + s)
	}
	return v
}

func (s *settlementSuite) TestSplitExactness() {
	price := wei("1000000000000000000") // 1 eth

	s.feeConfigRepo.On("Get", mockCtx).Return(&marketplace.FeeConfig{
		FeeRecipient: feeRecipient,
		FeeBps:       250,
	}, nil)
	s.royalty.On("RoyaltyInfo", mockCtx, testId, price).
		Return(creator, wei("50000000000000000"), nil)
	s.payout.On("Transfer", mockCtx, testId.ChainId, mock.Anything, mock.Anything).Return(nil)

	payouts, err := s.im.Settle(mockCtx, testId, seller, price)
	s.NoError(err)
	s.Equal(domain.Amount("25000000000000000"), payouts.PlatformFee)
	s.Equal(domain.Amount("50000000000000000"), payouts.Royalty)
	s.Equal(domain.Amount("925000000000000000"), payouts.NetToSeller)

	sum := new(big.Int).Add(payouts.PlatformFee.Big(), payouts.Royalty.Big())
	sum.Add(sum, payouts.NetToSeller.Big())
	s.Zero(sum.Cmp(price))

	s.payout.AssertCalled(s.T(), "Transfer", mockCtx, testId.ChainId, feeRecipient, wei("25000000000000000"))
	s.payout.AssertCalled(s.T(), "Transfer", mockCtx, testId.ChainId, creator, wei("50000000000000000"))
	s.payout.AssertCalled(s.T(), "Transfer", mockCtx, testId.ChainId, seller, wei("925000000000000000"))
}

func (s *settlementSuite) TestFeeFloorDivision() {
	// 999 wei at 250 bps floors to 24
	price := big.NewInt(999)

	s.feeConfigRepo.On("Get", mockCtx).Return(&marketplace.FeeConfig{
		FeeRecipient: feeRecipient,
		FeeBps:       250,
	}, nil)
	s.royalty.On("RoyaltyInfo", mockCtx, testId, price).
		Return(domain.EmptyAddress, big.NewInt(0), nil)
	s.payout.On("Transfer", mockCtx, testId.ChainId, mock.Anything, mock.Anything).Return(nil)

	payouts, err := s.im.Settle(mockCtx, testId, seller, price)
	s.NoError(err)
	s.Equal(domain.Amount("24"), payouts.PlatformFee)
	s.Equal(domain.Amount("975"), payouts.NetToSeller)
}

func (s *settlementSuite) TestRoyaltyCappedAtPriceMinusFee() {
	price := big.NewInt(1000)

	s.feeConfigRepo.On("Get", mockCtx).Return(&marketplace.FeeConfig{
		FeeRecipient: feeRecipient,
		FeeBps:       1000,
	}, nil)
	// engine claims more than the whole price
	s.royalty.On("RoyaltyInfo", mockCtx, testId, price).
		Return(creator, big.NewInt(5000), nil)
	s.payout.On("Transfer", mockCtx, testId.ChainId, mock.Anything, mock.Anything).Return(nil)

	payouts, err := s.im.Settle(mockCtx, testId, seller, price)
	s.NoError(err)
	s.Equal(domain.Amount("100"), payouts.PlatformFee)
	s.Equal(domain.Amount("900"), payouts.Royalty)
	s.Equal(domain.Amount("0"), payouts.NetToSeller)
}

func (s *settlementSuite) TestNoFeeConfig() {
	price := big.NewInt(1000)

	s.feeConfigRepo.On("Get", mockCtx).Return(nil, domain.ErrNotFound)
	s.royalty.On("RoyaltyInfo", mockCtx, testId, price).
		Return(domain.EmptyAddress, big.NewInt(0), nil)
	s.payout.On("Transfer", mockCtx, testId.ChainId, seller, price).Return(nil)

	payouts, err := s.im.Settle(mockCtx, testId, seller, price)
	s.NoError(err)
	s.Equal(domain.Amount("0"), payouts.PlatformFee)
	s.Equal(domain.Amount("1000"), payouts.NetToSeller)
}

func (s *settlementSuite) TestRoyaltyEngineFailureCollapsesToZero() {
	price := big.NewInt(1000)

	s.feeConfigRepo.On("Get", mockCtx).Return(&marketplace.FeeConfig{
		FeeRecipient: feeRecipient,
		FeeBps:       250,
	}, nil)
	s.royalty.On("RoyaltyInfo", mockCtx, testId, price).
		Return(domain.EmptyAddress, nil, errors.New("execution reverted"))
	s.payout.On("Transfer", mockCtx, testId.ChainId, mock.Anything, mock.Anything).Return(nil)

	payouts, err := s.im.Settle(mockCtx, testId, seller, price)
	s.NoError(err)
	s.Equal(domain.Amount("0"), payouts.Royalty)
	s.Equal(domain.Amount("975"), payouts.NetToSeller)
}

func (s *settlementSuite) TestPayoutFailureAborts() {
	price := big.NewInt(1000)

	s.feeConfigRepo.On("Get", mockCtx).Return(&marketplace.FeeConfig{
		FeeRecipient: feeRecipient,
		FeeBps:       250,
	}, nil)
	s.royalty.On("RoyaltyInfo", mockCtx, testId, price).
		Return(domain.EmptyAddress, big.NewInt(0), nil)
	s.payout.On("Transfer", mockCtx, testId.ChainId, feeRecipient, mock.Anything).
		Return(errors.New("insufficient funds"))

	_, err := s.im.Settle(mockCtx, testId, seller, price)
	s.ErrorIs(err, domain.ErrTransferFailed)
	s.payout.AssertNotCalled(s.T(), "Transfer", mockCtx, testId.ChainId, seller, mock.Anything)
}

func (s *settlementSuite) TestRejectsNonPositivePrice() {
	_, err := s.im.Settle(mockCtx, testId, seller, big.NewInt(0))
	s.ErrorIs(err, domain.ErrInvalidPrice)

	_, err = s.im.Settle(mockCtx, testId, seller, nil)
	s.ErrorIs(err, domain.ErrInvalidPrice)
}
