package usecase

import (
	"math/big"
	"testing"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/domain/marketplace/mocks"
	queryMocks "github.com/niftybay/goapi/service/query/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var mockCtx = ctx.Background()

type listingSuite struct {
	suite.Suite
	listingRepo *mocks.ListingRepo
	auctionRepo *mocks.AuctionRepo
	eventRepo   *mocks.EventRepo
	registry    *mocks.TokenRegistry
	settlement  *mocks.SettlementUseCase
	payout      *mocks.PayoutService
	im          marketplace.ListingUseCase
}

func TestListing(t *testing.T) {
	suite.Run(t, new(listingSuite))
}

var (
	operator = domain.Address("0x00000000000000000000000000000000000000ee")
	testId   = marketplace.Id{
		ChainId:         1,
		ContractAddress: "0x00000000000000000000000000000000000000aa",
		TokenId:         "7",
	}
	seller = domain.Address("0x00000000000000000000000000000000000000s1")
	buyer  = domain.Address("0x00000000000000000000000000000000000000b1")
)

func (s *listingSuite) SetupTest() {
	s.listingRepo = &mocks.ListingRepo{}
	s.auctionRepo = &mocks.AuctionRepo{}
	s.eventRepo = &mocks.EventRepo{}
	s.registry = &mocks.TokenRegistry{}
	s.settlement = &mocks.SettlementUseCase{}
	s.payout = &mocks.PayoutService{}
	s.im = NewListingUseCase(&queryMocks.Mongo{}, s.listingRepo, s.auctionRepo, s.eventRepo, s.registry, s.settlement, s.payout, operator)
}

func (s *listingSuite) TestCreate() {
	s.registry.On("OwnerOf", mockCtx, testId).Return(seller, nil)
	s.registry.On("IsApprovedOrOperator", mockCtx, testId, seller, operator).Return(true, nil)
	s.listingRepo.On("FindOne", mockCtx, testId).Return(nil, domain.ErrNotFound)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(nil, domain.ErrNotFound)
	s.listingRepo.On("Insert", mockCtx, mock.Anything).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	listing, err := s.im.Create(mockCtx, marketplace.CreateListingPayload{
		Id:     testId,
		Seller: seller,
		Price:  domain.Amount("1000000000000000000"),
	})
	s.NoError(err)
	s.True(listing.Active)
	s.Equal(seller, listing.Seller)
	s.listingRepo.AssertExpectations(s.T())
}

func (s *listingSuite) TestCreateNotOwner() {
	s.registry.On("OwnerOf", mockCtx, testId).Return(buyer, nil)

	_, err := s.im.Create(mockCtx, marketplace.CreateListingPayload{
		Id:     testId,
		Seller: seller,
		Price:  domain.Amount("100"),
	})
	s.ErrorIs(err, domain.ErrNotOwner)
}

func (s *listingSuite) TestCreateNotApproved() {
	s.registry.On("OwnerOf", mockCtx, testId).Return(seller, nil)
	s.registry.On("IsApprovedOrOperator", mockCtx, testId, seller, operator).Return(false, nil)

	_, err := s.im.Create(mockCtx, marketplace.CreateListingPayload{
		Id:     testId,
		Seller: seller,
		Price:  domain.Amount("100"),
	})
	s.ErrorIs(err, domain.ErrNotApproved)
}

func (s *listingSuite) TestCreateAlreadyListed() {
	s.registry.On("OwnerOf", mockCtx, testId).Return(seller, nil)
	s.registry.On("IsApprovedOrOperator", mockCtx, testId, seller, operator).Return(true, nil)
	s.listingRepo.On("FindOne", mockCtx, testId).Return(&marketplace.Listing{Active: true}, nil)

	_, err := s.im.Create(mockCtx, marketplace.CreateListingPayload{
		Id:     testId,
		Seller: seller,
		Price:  domain.Amount("100"),
	})
	s.ErrorIs(err, domain.ErrAlreadyListed)
}

func (s *listingSuite) TestCreateBlockedByActiveAuction() {
	s.registry.On("OwnerOf", mockCtx, testId).Return(seller, nil)
	s.registry.On("IsApprovedOrOperator", mockCtx, testId, seller, operator).Return(true, nil)
	s.listingRepo.On("FindOne", mockCtx, testId).Return(nil, domain.ErrNotFound)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(&marketplace.Auction{Active: true}, nil)

	_, err := s.im.Create(mockCtx, marketplace.CreateListingPayload{
		Id:     testId,
		Seller: seller,
		Price:  domain.Amount("100"),
	})
	s.ErrorIs(err, domain.ErrAlreadyOnAuction)
}

func (s *listingSuite) TestCreateInvalidPrice() {
	_, err := s.im.Create(mockCtx, marketplace.CreateListingPayload{
		Id:     testId,
		Seller: seller,
		Price:  domain.Amount("0"),
	})
	s.ErrorIs(err, domain.ErrInvalidPrice)
}

func (s *listingSuite) activeListing() *marketplace.Listing {
	return &marketplace.Listing{
		ChainId:         testId.ChainId,
		ContractAddress: testId.ContractAddress,
		TokenId:         testId.TokenId,
		Seller:          seller,
		Price:           domain.Amount("1000"),
		Active:          true,
	}
}

func (s *listingSuite) TestBuy() {
	s.listingRepo.On("FindOne", mockCtx, testId).Return(s.activeListing(), nil)
	s.listingRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.settlement.On("Settle", mockCtx, testId, seller, big.NewInt(1000)).Return(&marketplace.Payouts{
		Seller:      seller,
		PlatformFee: domain.Amount("25"),
		Royalty:     domain.Amount("50"),
		NetToSeller: domain.Amount("925"),
	}, nil)
	s.registry.On("SafeTransfer", mockCtx, testId, seller, buyer).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	sale, err := s.im.Buy(mockCtx, marketplace.BuyListingPayload{
		Id:    testId,
		Buyer: buyer,
		Paid:  domain.Amount("1000"),
	})
	s.NoError(err)
	s.Equal(buyer, sale.Buyer)
	s.Equal(domain.Amount("925"), sale.NetToSeller)
	s.payout.AssertNotCalled(s.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *listingSuite) TestBuyRefundsSurplus() {
	s.listingRepo.On("FindOne", mockCtx, testId).Return(s.activeListing(), nil)
	s.listingRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.settlement.On("Settle", mockCtx, testId, seller, big.NewInt(1000)).Return(&marketplace.Payouts{}, nil)
	s.registry.On("SafeTransfer", mockCtx, testId, seller, buyer).Return(nil)
	s.payout.On("Transfer", mockCtx, testId.ChainId, buyer, big.NewInt(500)).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	_, err := s.im.Buy(mockCtx, marketplace.BuyListingPayload{
		Id:    testId,
		Buyer: buyer,
		Paid:  domain.Amount("1500"),
	})
	s.NoError(err)
	s.payout.AssertExpectations(s.T())
}

func (s *listingSuite) TestBuyUnderpaid() {
	s.listingRepo.On("FindOne", mockCtx, testId).Return(s.activeListing(), nil)

	_, err := s.im.Buy(mockCtx, marketplace.BuyListingPayload{
		Id:    testId,
		Buyer: buyer,
		Paid:  domain.Amount("999"),
	})
	s.ErrorIs(err, domain.ErrPriceTooLow)
}

func (s *listingSuite) TestBuyNotListed() {
	s.listingRepo.On("FindOne", mockCtx, testId).Return(nil, domain.ErrNotFound)

	_, err := s.im.Buy(mockCtx, marketplace.BuyListingPayload{
		Id:    testId,
		Buyer: buyer,
		Paid:  domain.Amount("1000"),
	})
	s.ErrorIs(err, domain.ErrNotListed)
}

func (s *listingSuite) TestBuyTokenTransferFailureAborts() {
	s.listingRepo.On("FindOne", mockCtx, testId).Return(s.activeListing(), nil)
	s.listingRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.settlement.On("Settle", mockCtx, testId, seller, big.NewInt(1000)).Return(&marketplace.Payouts{}, nil)
	s.registry.On("SafeTransfer", mockCtx, testId, seller, buyer).Return(domain.ErrTokenTransferFail)

	_, err := s.im.Buy(mockCtx, marketplace.BuyListingPayload{
		Id:    testId,
		Buyer: buyer,
		Paid:  domain.Amount("1000"),
	})
	s.ErrorIs(err, domain.ErrTokenTransferFail)
	s.eventRepo.AssertNotCalled(s.T(), "Insert", mock.Anything, mock.Anything)
}

func (s *listingSuite) TestCancel() {
	s.listingRepo.On("FindOne", mockCtx, testId).Return(s.activeListing(), nil)
	s.listingRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	s.NoError(s.im.Cancel(mockCtx, testId, seller))
	s.listingRepo.AssertExpectations(s.T())
}

func (s *listingSuite) TestCancelNotSeller() {
	s.listingRepo.On("FindOne", mockCtx, testId).Return(s.activeListing(), nil)

	err := s.im.Cancel(mockCtx, testId, buyer)
	s.ErrorIs(err, domain.ErrNotAuthorized)
}
