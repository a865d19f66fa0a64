package usecase

import (
	"math/big"
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

type listingImpl struct {
	mu          sync.Mutex
	q           query.Mongo
	listingRepo marketplace.ListingRepo
	auctionRepo marketplace.AuctionRepo
	eventRepo   marketplace.EventRepo
	registry    marketplace.TokenRegistry
	settlement  marketplace.SettlementUseCase
	payout      marketplace.PayoutService
	operator    domain.Address
}

func NewListingUseCase(
	q query.Mongo,
	listingRepo marketplace.ListingRepo,
	auctionRepo marketplace.AuctionRepo,
	eventRepo marketplace.EventRepo,
	registry marketplace.TokenRegistry,
	settlement marketplace.SettlementUseCase,
	payout marketplace.PayoutService,
	operator domain.Address,
) marketplace.ListingUseCase {
	return &listingImpl{
		q:           q,
		listingRepo: listingRepo,
		auctionRepo: auctionRepo,
		eventRepo:   eventRepo,
		registry:    registry,
		settlement:  settlement,
		payout:      payout,
		operator:    operator.ToLower(),
	}
}

func (im *listingImpl) checkSellerAndApproval(c bCtx.Ctx, id marketplace.Id, seller domain.Address) error {
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

func (im *listingImpl) Create(c bCtx.Ctx, p marketplace.CreateListingPayload) (*marketplace.Listing, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	id := p.Id.ToLower()
	seller := p.Seller.ToLower()

	price := p.Price.Big()
	if price == nil || price.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	if err := im.checkSellerAndApproval(c, id, seller); err != nil {
		return nil, err
	}

	existing, err := im.listingRepo.FindOne(c, id)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}
	if existing != nil && existing.Active {
		return nil, domain.ErrAlreadyListed
	}

	if auction, err := im.auctionRepo.FindOne(c, id); err != nil && err != domain.ErrNotFound {
		return nil, err
	} else if auction != nil && auction.Active {
		return nil, domain.ErrAlreadyOnAuction
	}

	listing := &marketplace.Listing{
		ChainId:         id.ChainId,
		ContractAddress: id.ContractAddress,
		TokenId:         id.TokenId,
		Seller:          seller,
		Price:           p.Price,
		DisplayPrice:    p.Price.Display(),
		Active:          true,
		CreatedAt:       timeNow(),
	}

	err = im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if existing == nil {
			if err := im.listingRepo.Insert(c, listing); err != nil {
				return err
			}
		} else {
			if err := im.listingRepo.Patch(c, id, marketplace.PatchableListing{
				Seller:       &listing.Seller,
				Price:        &listing.Price,
				DisplayPrice: &listing.DisplayPrice,
				Active:       ptr.Bool(true),
				CreatedAt:    &listing.CreatedAt,
			}); err != nil {
				return err
			}
		}

		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId:         uuid.NewString(),
			Type:            marketplace.EventTypeItemListed,
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Account:         seller,
			Amount:          listing.Price,
			DisplayAmount:   listing.DisplayPrice,
			Time:            listing.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (im *listingImpl) Buy(c bCtx.Ctx, p marketplace.BuyListingPayload) (*marketplace.Sale, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	id := p.Id.ToLower()
	buyer := p.Buyer.ToLower()

	listing, err := im.listingRepo.FindOne(c, id)
	if err == domain.ErrNotFound {
		return nil, domain.ErrNotListed
	} else if err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, domain.ErrNotListed
	}

	paid := p.Paid.Big()
	if paid == nil || paid.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	price := listing.Price.Big()
	if price == nil {
		c.WithField("price", listing.Price).Error("corrupt listing price")
		return nil, domain.ErrInternalServerError
	}
	if paid.Cmp(price) < 0 {
		return nil, domain.ErrPriceTooLow
	}

	var sale *marketplace.Sale

	err = im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		// deactivate before any external interaction
		if err := im.listingRepo.Patch(c, id, marketplace.PatchableListing{
			Active: ptr.Bool(false),
		}); err != nil {
			return err
		}

		payouts, err := im.settlement.Settle(c, id, listing.Seller, price)
		if err != nil {
			return err
		}

		if err := im.registry.SafeTransfer(c, id, listing.Seller, buyer); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("registry.SafeTransfer failed")
			return domain.ErrTokenTransferFail
		}

		if surplus := new(big.Int).Sub(paid, price); surplus.Sign() > 0 {
			if err := im.payout.Transfer(c, id.ChainId, buyer, surplus); err != nil {
				c.WithFields(log.Fields{
					"err":     err,
					"surplus": surplus,
				}).Error("surplus refund failed")
				return domain.ErrTransferFailed
			}
		}

		sale = &marketplace.Sale{
			Id:          id,
			Seller:      listing.Seller,
			Buyer:       buyer,
			Price:       listing.Price,
			PlatformFee: payouts.PlatformFee,
			Royalty:     payouts.Royalty,
			NetToSeller: payouts.NetToSeller,
		}

		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId:         uuid.NewString(),
			Type:            marketplace.EventTypeItemSold,
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Account:         listing.Seller,
			To:              buyer,
			Amount:          listing.Price,
			DisplayAmount:   listing.DisplayPrice,
			Time:            timeNow(),
		})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (im *listingImpl) Cancel(c bCtx.Ctx, id marketplace.Id, caller domain.Address) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	id = id.ToLower()

	listing, err := im.listingRepo.FindOne(c, id)
	if err == domain.ErrNotFound {
		return domain.ErrNotListed
	} else if err != nil {
		return err
	}
	if !listing.Active {
		return domain.ErrNotListed
	}
	if !listing.Seller.Equals(caller.ToLower()) {
		return domain.ErrNotAuthorized
	}

	return im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if err := im.listingRepo.Patch(c, id, marketplace.PatchableListing{
			Active: ptr.Bool(false),
		}); err != nil {
			return err
		}
		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId:         uuid.NewString(),
			Type:            marketplace.EventTypeListingCanceled,
			ChainId:         id.ChainId,
			ContractAddress: id.ContractAddress,
			TokenId:         id.TokenId,
			Account:         listing.Seller,
			Time:            timeNow(),
		})
	})
}

func (im *listingImpl) Get(c bCtx.Ctx, id marketplace.Id) (*marketplace.Listing, error) {
	listing, err := im.listingRepo.FindOne(c, id.ToLower())
	if err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, domain.ErrNotFound
	}
	return listing, nil
}
