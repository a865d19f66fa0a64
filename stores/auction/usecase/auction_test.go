package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/domain/marketplace/mocks"
	queryMocks "github.com/niftybay/goapi/service/query/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var mockCtx = ctx.Background()

type auctionSuite struct {
	suite.Suite
	auctionRepo *mocks.AuctionRepo
	listingRepo *mocks.ListingRepo
	eventRepo   *mocks.EventRepo
	registry    *mocks.TokenRegistry
	settlement  *mocks.SettlementUseCase
	withdrawal  *mocks.WithdrawalUseCase
	im          marketplace.AuctionUseCase
	now         time.Time
}

func TestAuction(t *testing.T) {
	suite.Run(t, new(auctionSuite))
}

var (
	operator = domain.Address("0x00000000000000000000000000000000000000ee")
	testId   = marketplace.Id{
		ChainId:         1,
		ContractAddress: "0x00000000000000000000000000000000000000aa",
		TokenId:         "7",
	}
	seller  = domain.Address("0x00000000000000000000000000000000000000s1")
	bidder1 = domain.Address("0x00000000000000000000000000000000000000b1")
	bidder2 = domain.Address("0x00000000000000000000000000000000000000b2")
)

func (s *auctionSuite) SetupTest() {
	s.auctionRepo = &mocks.AuctionRepo{}
	s.listingRepo = &mocks.ListingRepo{}
	s.eventRepo = &mocks.EventRepo{}
	s.registry = &mocks.TokenRegistry{}
	s.settlement = &mocks.SettlementUseCase{}
	s.withdrawal = &mocks.WithdrawalUseCase{}
	s.im = NewAuctionUseCase(&queryMocks.Mongo{}, s.auctionRepo, s.listingRepo, s.eventRepo, s.registry, s.settlement, s.withdrawal, operator)

	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return s.now }
}

func (s *auctionSuite) TearDownTest() {
	timeNow = time.Now
}

func (s *auctionSuite) runningAuction() *marketplace.Auction {
	return &marketplace.Auction{
		ChainId:         testId.ChainId,
		ContractAddress: testId.ContractAddress,
		TokenId:         testId.TokenId,
		Seller:          seller,
		MinBid:          domain.Amount("1000"),
		HighestBid:      domain.Amount("1000"),
		HighestBidder:   domain.EmptyAddress,
		HasBid:          false,
		EndTime:         s.now.Add(24 * time.Hour),
		Active:          true,
		CreatedAt:       s.now.Add(-time.Hour),
	}
}

func (s *auctionSuite) TestCreate() {
	s.registry.On("OwnerOf", mockCtx, testId).Return(seller, nil)
	s.registry.On("IsApprovedOrOperator", mockCtx, testId, seller, operator).Return(true, nil)
	s.listingRepo.On("FindOne", mockCtx, testId).Return(nil, domain.ErrNotFound)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(nil, domain.ErrNotFound)
	s.auctionRepo.On("Insert", mockCtx, mock.Anything).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	auction, err := s.im.Create(mockCtx, marketplace.CreateAuctionPayload{
		Id:              testId,
		Seller:          seller,
		MinBid:          domain.Amount("1000"),
		DurationSeconds: 86400,
	})
	s.NoError(err)
	s.True(auction.Active)
	s.False(auction.HasBid)
	s.Equal(domain.Amount("1000"), auction.HighestBid)
	s.Equal(s.now.Add(24*time.Hour), auction.EndTime)
}

func (s *auctionSuite) TestCreateDurationBounds() {
	payload := marketplace.CreateAuctionPayload{
		Id:     testId,
		Seller: seller,
		MinBid: domain.Amount("1000"),
	}

	payload.DurationSeconds = int64((time.Hour - time.Second) / time.Second)
	_, err := s.im.Create(mockCtx, payload)
	s.ErrorIs(err, domain.ErrInvalidDuration)

	payload.DurationSeconds = int64((30*24*time.Hour + time.Second) / time.Second)
	_, err = s.im.Create(mockCtx, payload)
	s.ErrorIs(err, domain.ErrInvalidDuration)
}

func (s *auctionSuite) TestCreateBlockedByActiveListing() {
	s.registry.On("OwnerOf", mockCtx, testId).Return(seller, nil)
	s.registry.On("IsApprovedOrOperator", mockCtx, testId, seller, operator).Return(true, nil)
	s.listingRepo.On("FindOne", mockCtx, testId).Return(&marketplace.Listing{Active: true}, nil)

	_, err := s.im.Create(mockCtx, marketplace.CreateAuctionPayload{
		Id:              testId,
		Seller:          seller,
		MinBid:          domain.Amount("1000"),
		DurationSeconds: 86400,
	})
	s.ErrorIs(err, domain.ErrAlreadyListed)
}

func (s *auctionSuite) TestFirstBidAtMinBid() {
	// bid lands well outside the anti-snipe window, endTime must stay put
	endTime := s.now.Add(24 * time.Hour)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(s.runningAuction(), nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.MatchedBy(func(p marketplace.PatchableAuction) bool {
		return p.EndTime != nil && p.EndTime.Equal(endTime)
	})).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	auction, err := s.im.PlaceBid(mockCtx, marketplace.PlaceBidPayload{
		Id:     testId,
		Bidder: bidder1,
		Amount: domain.Amount("1000"),
	})
	s.NoError(err)
	s.True(auction.HasBid)
	s.Equal(bidder1, auction.HighestBidder)
	s.Equal(endTime, auction.EndTime)
	s.auctionRepo.AssertExpectations(s.T())
	s.withdrawal.AssertNotCalled(s.T(), "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *auctionSuite) TestOutbidNeedsFivePercentMore() {
	running := s.runningAuction()
	running.HasBid = true
	running.HighestBidder = bidder1
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(running, nil)

	// 1049 < 1000 + 1000*5/100
	_, err := s.im.PlaceBid(mockCtx, marketplace.PlaceBidPayload{
		Id:     testId,
		Bidder: bidder2,
		Amount: domain.Amount("1049"),
	})
	s.ErrorIs(err, domain.ErrBidTooLow)
}

func (s *auctionSuite) TestOutbidCreditsDisplacedBidder() {
	running := s.runningAuction()
	running.HasBid = true
	running.HighestBidder = bidder1
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(running, nil)
	s.withdrawal.On("Credit", mockCtx, testId.ChainId, bidder1, big.NewInt(1000)).Return(nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	auction, err := s.im.PlaceBid(mockCtx, marketplace.PlaceBidPayload{
		Id:     testId,
		Bidder: bidder2,
		Amount: domain.Amount("1050"),
	})
	s.NoError(err)
	s.Equal(bidder2, auction.HighestBidder)
	s.Equal(domain.Amount("1050"), auction.HighestBid)
	s.withdrawal.AssertExpectations(s.T())
}

func (s *auctionSuite) TestTinyBidIncrementFloorsToZero() {
	// below 20 wei the five percent increment floors to zero, so an equal
	// re-bid displaces the current winner
	running := s.runningAuction()
	running.MinBid = domain.Amount("10")
	running.HighestBid = domain.Amount("10")
	running.HasBid = true
	running.HighestBidder = bidder1
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(running, nil)
	s.withdrawal.On("Credit", mockCtx, testId.ChainId, bidder1, big.NewInt(10)).Return(nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	auction, err := s.im.PlaceBid(mockCtx, marketplace.PlaceBidPayload{
		Id:     testId,
		Bidder: bidder2,
		Amount: domain.Amount("10"),
	})
	s.NoError(err)
	s.Equal(bidder2, auction.HighestBidder)
}

func (s *auctionSuite) TestBidExtendsEndTimeInsideAntiSnipeWindow() {
	running := s.runningAuction()
	running.EndTime = s.now.Add(5 * time.Minute)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(running, nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.MatchedBy(func(p marketplace.PatchableAuction) bool {
		return p.EndTime != nil && p.EndTime.Equal(s.now.Add(15*time.Minute))
	})).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	auction, err := s.im.PlaceBid(mockCtx, marketplace.PlaceBidPayload{
		Id:     testId,
		Bidder: bidder1,
		Amount: domain.Amount("1000"),
	})
	s.NoError(err)
	s.Equal(s.now.Add(15*time.Minute), auction.EndTime)
	s.auctionRepo.AssertExpectations(s.T())
}

func (s *auctionSuite) TestSellerCannotBid() {
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(s.runningAuction(), nil)

	_, err := s.im.PlaceBid(mockCtx, marketplace.PlaceBidPayload{
		Id:     testId,
		Bidder: seller,
		Amount: domain.Amount("1000"),
	})
	s.ErrorIs(err, domain.ErrSelfBid)
}

func (s *auctionSuite) TestBidAfterEndRejected() {
	running := s.runningAuction()
	running.EndTime = s.now
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(running, nil)

	_, err := s.im.PlaceBid(mockCtx, marketplace.PlaceBidPayload{
		Id:     testId,
		Bidder: bidder1,
		Amount: domain.Amount("1000"),
	})
	s.ErrorIs(err, domain.ErrAuctionEnded)
}

func (s *auctionSuite) TestResultSettlesAndTransfers() {
	ended := s.runningAuction()
	ended.HasBid = true
	ended.HighestBidder = bidder1
	ended.HighestBid = domain.Amount("2000")
	ended.EndTime = s.now.Add(-time.Minute)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(ended, nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.settlement.On("Settle", mockCtx, testId, seller, big.NewInt(2000)).Return(&marketplace.Payouts{
		Seller:      seller,
		NetToSeller: domain.Amount("1950"),
		PlatformFee: domain.Amount("50"),
	}, nil)
	s.registry.On("SafeTransfer", mockCtx, testId, seller, bidder1).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	result, err := s.im.Result(mockCtx, testId, seller)
	s.NoError(err)
	s.Equal(bidder1, result.Winner)
	s.Equal(domain.Amount("2000"), result.Amount)
	s.Require().NotNil(result.Sale)
	s.Equal(domain.Amount("1950"), result.Sale.NetToSeller)
}

func (s *auctionSuite) TestResultWithoutBids() {
	ended := s.runningAuction()
	ended.EndTime = s.now.Add(-time.Minute)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(ended, nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	result, err := s.im.Result(mockCtx, testId, seller)
	s.NoError(err)
	s.Equal(domain.EmptyAddress, result.Winner)
	s.Equal(domain.Amount("0"), result.Amount)
	s.Nil(result.Sale)
	s.settlement.AssertNotCalled(s.T(), "Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *auctionSuite) TestResultBeforeEndRejected() {
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(s.runningAuction(), nil)

	_, err := s.im.Result(mockCtx, testId, seller)
	s.ErrorIs(err, domain.ErrAuctionNotEnded)
}

func (s *auctionSuite) TestResultAtExactEndTimeRejected() {
	ended := s.runningAuction()
	ended.EndTime = s.now
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(ended, nil)

	_, err := s.im.Result(mockCtx, testId, seller)
	s.ErrorIs(err, domain.ErrAuctionNotEnded)
}

func (s *auctionSuite) TestResultAuthorization() {
	ended := s.runningAuction()
	ended.HasBid = true
	ended.HighestBidder = bidder1
	ended.EndTime = s.now.Add(-time.Hour)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(ended, nil)

	// a stranger inside the grace period may not result
	_, err := s.im.Result(mockCtx, testId, bidder2)
	s.ErrorIs(err, domain.ErrNotAuthorized)

	// once the grace period elapses anyone may
	s.auctionRepo.ExpectedCalls = nil
	late := s.runningAuction()
	late.HasBid = true
	late.HighestBidder = bidder1
	late.HighestBid = domain.Amount("2000")
	late.EndTime = s.now.Add(-24 * time.Hour)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(late, nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.settlement.On("Settle", mockCtx, testId, seller, big.NewInt(2000)).Return(&marketplace.Payouts{}, nil)
	s.registry.On("SafeTransfer", mockCtx, testId, seller, bidder1).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	result, err := s.im.Result(mockCtx, testId, bidder2)
	s.NoError(err)
	s.Equal(bidder1, result.Winner)
}

func (s *auctionSuite) TestWinnerMayResult() {
	ended := s.runningAuction()
	ended.HasBid = true
	ended.HighestBidder = bidder1
	ended.HighestBid = domain.Amount("2000")
	ended.EndTime = s.now.Add(-time.Minute)
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(ended, nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.settlement.On("Settle", mockCtx, testId, seller, big.NewInt(2000)).Return(&marketplace.Payouts{}, nil)
	s.registry.On("SafeTransfer", mockCtx, testId, seller, bidder1).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	_, err := s.im.Result(mockCtx, testId, bidder1)
	s.NoError(err)
}

func (s *auctionSuite) TestCancelWithBidsRejected() {
	running := s.runningAuction()
	running.HasBid = true
	running.HighestBidder = bidder1
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(running, nil)

	err := s.im.Cancel(mockCtx, testId, seller)
	s.ErrorIs(err, domain.ErrAuctionHasBids)
}

func (s *auctionSuite) TestCancelWithoutBids() {
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(s.runningAuction(), nil)
	s.auctionRepo.On("Patch", mockCtx, testId, mock.Anything).Return(nil)
	s.eventRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	s.NoError(s.im.Cancel(mockCtx, testId, seller))
}

func (s *auctionSuite) TestTimeRemaining() {
	s.auctionRepo.On("FindOne", mockCtx, testId).Return(s.runningAuction(), nil)

	remaining, err := s.im.TimeRemaining(mockCtx, testId)
	s.NoError(err)
	s.Equal(24*time.Hour, remaining)
}
