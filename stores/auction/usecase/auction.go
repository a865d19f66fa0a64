package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/base/ptr"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/query"
)

var timeNow = time.Now

type auctionImpl struct {
	mu          sync.Mutex
	q           query.Mongo
	auctionRepo marketplace.AuctionRepo
	listingRepo marketplace.ListingRepo
	eventRepo   marketplace.EventRepo
	registry    marketplace.TokenRegistry
	settlement  marketplace.SettlementUseCase
	withdrawal  marketplace.WithdrawalUseCase
	operator    domain.Address
}

func NewAuctionUseCase(
	q query.Mongo,
	auctionRepo marketplace.AuctionRepo,
	listingRepo marketplace.ListingRepo,
	eventRepo marketplace.EventRepo,
	registry marketplace.TokenRegistry,
	settlement marketplace.SettlementUseCase,
	withdrawal marketplace.WithdrawalUseCase,
	operator domain.Address,
) marketplace.AuctionUseCase {
	return &auctionImpl{
		q:           q,
		auctionRepo: auctionRepo,
		listingRepo: listingRepo,
		eventRepo:   eventRepo,
		registry:    registry,
		settlement:  settlement,
		withdrawal:  withdrawal,
		operator:    operator.ToLower(),
	}
}

func (im *auctionImpl) checkSellerAndApproval(c bCtx.Ctx, id marketplace.Id, seller domain.Address) error {
	owner, err := im.registry.OwnerOf(c, id)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("registry.OwnerOf failed")
		return err
	}
	if !owner.Equals(seller) {
		return domain.ErrNotOwner
	}

	approved, err := im.registry.IsApprovedOrOperator(c, id, seller, im.operator)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("registry.IsApprovedOrOperator failed")
		return err
	}
	if !approved {
		return domain.ErrNotApproved
	}
	return nil
}

func (im *auctionImpl) Create(c bCtx.Ctx, p marketplace.CreateAuctionPayload) (*marketplace.Auction, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	id := p.Id.ToLower()
	seller := p.Seller.ToLower()

	minBid := p.MinBid.Big()
	if minBid == nil || minBid.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	duration := time.Duration(p.DurationSeconds) * time.Second
	if duration < marketplace.MinAuctionDuration || duration > marketplace.MaxAuctionDuration {
		return nil, domain.ErrInvalidDuration
	}

	if err := im.checkSellerAndApproval(c, id, seller); err != nil {
		return nil, err
	}

	if listing, err := im.listingRepo.FindOne(c, id); err != nil && err != domain.ErrNotFound {
		return nil, err
	} else if listing != nil && listing.Active {
		return nil, domain.ErrAlreadyListed
	}

	existing, err := im.auctionRepo.FindOne(c, id)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}
	if existing != nil && existing.Active {
		return nil, domain.ErrAlreadyOnAuction
	}

	now := timeNow()
	auction := &marketplace.Auction{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		MinBid:          p.MinBid,
		// placeholder until the first real bid arrives
		HighestBid:    p.MinBid,
		HighestBidder: domain.EmptyAddress,
		HasBid:        false,
		EndTime:       now.Add(duration),
		Active:        true,
		CreatedAt:     now,
	}

	err = im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if existing == nil {
			if err := im.auctionRepo.Insert(c, auction); err != nil {
				return err
			}
		} else {
			if err := im.auctionRepo.Patch(c, id, marketplace.PatchableAuction{
				Seller:        &auction.Seller,
				MinBid:        &auction.MinBid,
				HighestBid:    &auction.HighestBid,
				HighestBidder: &auction.HighestBidder,
				HasBid:        ptr.Bool(false),
				EndTime:       &auction.EndTime,
				Active:        ptr.Bool(true),
				CreatedAt:     &auction.CreatedAt,
			}); err != nil {
				return err
			}
		}

		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId:         uuid.NewString(),
			Type:            marketplace.EventTypeAuctionCreated,
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Account:         seller,
			Amount:          auction.MinBid,
			DisplayAmount:   auction.MinBid.Display(),
			Time:            now,
		})
	})
	if err != nil {
		return nil, err
	}
	return auction, nil
}

func (im *auctionImpl) PlaceBid(c bCtx.Ctx, p marketplace.PlaceBidPayload) (*marketplace.Auction, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	id := p.Id.ToLower()
	bidder := p.Bidder.ToLower()

	auction, err := im.auctionRepo.FindOne(c, id)
	if err == domain.ErrNotFound {
		return nil, domain.ErrNoAuction
	} else if err != nil {
		return nil, err
	}
	if !auction.Active {
		return nil, domain.ErrNoAuction
	}

	now := timeNow()
	if !now.Before(auction.EndTime) {
		return nil, domain.ErrAuctionEnded
	}
	if auction.Seller.Equals(bidder) {
		return nil, domain.ErrSelfBid
	}

	amount := p.Amount.Big()
	if amount == nil || amount.Sign() <= 0 {
		return nil, domain.ErrBidTooLow
	}

	highest := auction.HighestBid.Big()
	if highest == nil {
		c.WithField("highestBid", auction.HighestBid).Error("corrupt highest bid")
		return nil, domain.ErrInternalServerError
	}

	minAcceptable := highest
	if auction.HasBid {
		minAcceptable = marketplace.MinNextBid(highest)
	}
	if amount.Cmp(minAcceptable) < 0 {
		return nil, domain.ErrBidTooLow
	}

	endTime := auction.EndTime
	if endTime.Sub(now) < marketplace.AntiSnipeWindow {
		endTime = now.Add(marketplace.AntiSnipeWindow)
	}

	bid := domain.AmountFromBig(amount)

	err = im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if auction.HasBid {
			// displaced bidder goes to the pull-payment ledger, never push-paid
			if err := im.withdrawal.Credit(c, id.ChainId, auction.HighestBidder, highest); err != nil {
				return err
			}
			if err := im.eventRepo.Insert(c, &marketplace.Event{
				EventId:         uuid.NewString(),
				Type:            marketplace.EventTypeBidRefunded,
				ChainId:         id.ChainId,
				ContractAddress: id.ContractAddress,
				TokenId:         id.TokenId,
				Account:         auction.HighestBidder,
				Amount:          auction.HighestBid,
				DisplayAmount:   auction.HighestBid.Display(),
				Time:            now,
			}); err != nil {
				return err
			}
		}

		if err := im.auctionRepo.Patch(c, id, marketplace.PatchableAuction{
			HighestBid:    &bid,
			HighestBidder: &bidder,
			HasBid:        ptr.Bool(true),
			EndTime:       &endTime,
		}); err != nil {
			return err
		}

		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId:         uuid.NewString(),
			Type:            marketplace.EventTypeBidPlaced,
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Account:         bidder,
			Amount:          bid,
			DisplayAmount:   bid.Display(),
			Time:            now,
		})
	})
	if err != nil {
		return nil, err
	}

	auction.HighestBid = bid
	auction.HighestBidder = bidder
	auction.HasBid = true
	auction.EndTime = endTime
	return auction, nil
}

func (im *auctionImpl) Result(c bCtx.Ctx, id marketplace.Id, caller domain.Address) (*marketplace.AuctionResult, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	id = id.ToLower()
	caller = caller.ToLower()

	auction, err := im.auctionRepo.FindOne(c, id)
	if err == domain.ErrNotFound {
		return nil, domain.ErrNoAuction
	} else if err != nil {
		return nil, err
	}
	if !auction.Active {
		return nil, domain.ErrNoAuction
	}

	now := timeNow()
	if !now.After(auction.EndTime) {
		return nil, domain.ErrAuctionNotEnded
	}

	graceOver := !now.Before(auction.EndTime.Add(marketplace.ResultGracePeriod))
	isWinner := auction.HasBid && auction.HighestBidder.Equals(caller)
	if !auction.Seller.Equals(caller) && !isWinner && !graceOver {
		return nil, domain.ErrNotAuthorized
	}

	result := &marketplace.AuctionResult{
		Id:     id,
		Winner: domain.EmptyAddress,
		Amount: domain.Amount("0"),
	}

	err = im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if err := im.auctionRepo.Patch(c, id, marketplace.PatchableAuction{
			Active: ptr.Bool(false),
		}); err != nil {
			return err
		}

		event := &marketplace.Event{
			EventId:         uuid.NewString(),
			Type:            marketplace.EventTypeAuctionResulted,
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Account:         auction.Seller,
			Amount:          domain.Amount("0"),
			Time:            now,
		}

		if auction.HasBid {
			highest := auction.HighestBid.Big()
			if highest == nil {
				c.WithField("highestBid", auction.HighestBid).Error("corrupt highest bid")
				return domain.ErrInternalServerError
			}

			payouts, err := im.settlement.Settle(c, id, auction.Seller, highest)
			if err != nil {
				return err
			}

			if err := im.registry.SafeTransfer(c, id, auction.Seller, auction.HighestBidder); err != nil {
				c.WithFields(log.Fields{
					"err": err,
					"id":  id,
				}).Error("registry.SafeTransfer failed")
				return domain.ErrTokenTransferFail
			}

			result.Winner = auction.HighestBidder
			result.Amount = auction.HighestBid
			result.Sale = &marketplace.Sale{
				Id:          id,
				Seller:      auction.Seller,
				Buyer:       auction.HighestBidder,
				Price:       auction.HighestBid,
				PlatformFee: payouts.PlatformFee,
				Royalty:     payouts.Royalty,
				NetToSeller: payouts.NetToSeller,
			}

			event.To = auction.HighestBidder
			event.Amount = auction.HighestBid
			event.DisplayAmount = auction.HighestBid.Display()
		}

		return im.eventRepo.Insert(c, event)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (im *auctionImpl) Cancel(c bCtx.Ctx, id marketplace.Id, caller domain.Address) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	id = id.ToLower()

	auction, err := im.auctionRepo.FindOne(c, id)
	if err == domain.ErrNotFound {
		return domain.ErrNoAuction
	} else if err != nil {
		return err
	}
	if !auction.Active {
		return domain.ErrNoAuction
	}
	if !auction.Seller.Equals(caller.ToLower()) {
		return domain.ErrNotAuthorized
	}
	if auction.HasBid {
		return domain.ErrAuctionHasBids
	}

	return im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if err := im.auctionRepo.Patch(c, id, marketplace.PatchableAuction{
			Active: ptr.Bool(false),
		}); err != nil {
			return err
		}
		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId:         uuid.NewString(),
			Type:            marketplace.EventTypeAuctionCanceled,
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Account:         auction.Seller,
			Time:            timeNow(),
		})
	})
}

func (im *auctionImpl) Get(c bCtx.Ctx, id marketplace.Id) (*marketplace.Auction, error) {
	auction, err := im.auctionRepo.FindOne(c, id.ToLower())
	if err != nil {
		return nil, err
	}
	if !auction.Active {
		return nil, domain.ErrNotFound
	}
	return auction, nil
}

func (im *auctionImpl) TimeRemaining(c bCtx.Ctx, id marketplace.Id) (time.Duration, error) {
	auction, err := im.auctionRepo.FindOne(c, id.ToLower())
	if err == domain.ErrNotFound {
		return 0, domain.ErrNoAuction
	} else if err != nil {
		return 0, err
	}
	if !auction.Active {
		return 0, domain.ErrNoAuction
	}

	remaining := auction.EndTime.Sub(timeNow())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
