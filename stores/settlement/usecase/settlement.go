package usecase

import (
	"math/big"

	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
)

type settlementImpl struct {
	feeConfigRepo marketplace.FeeConfigRepo
	royalty       marketplace.RoyaltyProvider
	payout        marketplace.PayoutService
}

func NewSettlementUseCase(
	feeConfigRepo marketplace.FeeConfigRepo,
	royalty marketplace.RoyaltyProvider,
	payout marketplace.PayoutService,
) marketplace.SettlementUseCase {
	return &settlementImpl{
		feeConfigRepo: feeConfigRepo,
		royalty:       royalty,
		payout:        payout,
	}
}

// royaltyInfo shields the settlement from the royalty engine. The engine is
// an arbitrary external contract; errors, panics and malformed results all
// collapse to no royalty so a broken engine can never block a sale.
func (im *settlementImpl) royaltyInfo(c bCtx.Ctx, id marketplace.Id, salePrice *big.Int) (receiver domain.Address, amount *big.Int) {
	defer func() {
		if r := recover(); r != nil {
			c.WithField("recovered", r).Warn("royalty engine panicked")
			receiver, amount = domain.EmptyAddress, new(big.Int)
		}
	}()

	receiver, amount, err := im.royalty.RoyaltyInfo(c, id, salePrice)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Warn("royalty lookup failed")
		return domain.EmptyAddress, new(big.Int)
	}
	if receiver.IsEmpty() || amount == nil || amount.Sign() <= 0 {
		return domain.EmptyAddress, new(big.Int)
	}
	return receiver, amount
}

func (im *settlementImpl) Settle(c bCtx.Ctx, id marketplace.Id, seller domain.Address, price *big.Int) (*marketplace.Payouts, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	cfg, err := im.feeConfigRepo.Get(c)
	if err == domain.ErrNotFound {
		cfg = &marketplace.FeeConfig{}
	} else if err != nil {
		return nil, err
	}

	platformFee := new(big.Int)
	if cfg.FeeBps > 0 && !cfg.FeeRecipient.IsEmpty() {
		platformFee.Mul(price, big.NewInt(cfg.FeeBps))
		platformFee.Div(platformFee, domain.BpsDenominator)
	}

	royaltyReceiver, royalty := im.royaltyInfo(c, id, price)

	// royalty can never eat into the platform fee
	if maxRoyalty := new(big.Int).Sub(price, platformFee); royalty.Cmp(maxRoyalty) > 0 {
		royalty = maxRoyalty
	}

	netToSeller := new(big.Int).Sub(price, platformFee)
	netToSeller.Sub(netToSeller, royalty)

	if platformFee.Sign() > 0 {
		if err := im.payout.Transfer(c, id.ChainId, cfg.FeeRecipient, platformFee); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"to":  cfg.FeeRecipient,
			}).Error("platform fee payout failed")
			return nil, domain.ErrTransferFailed
		}
	}

	if royalty.Sign() > 0 {
		if err := im.payout.Transfer(c, id.ChainId, royaltyReceiver, royalty); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"to":  royaltyReceiver,
			}).Error("royalty payout failed")
			return nil, domain.ErrTransferFailed
		}
	}

	if netToSeller.Sign() > 0 {
		if err := im.payout.Transfer(c, id.ChainId, seller, netToSeller); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"to":  seller,
			}).Error("seller payout failed")
			return nil, domain.ErrTransferFailed
		}
	}

	return &marketplace.Payouts{
		Seller:          seller,
		FeeRecipient:    cfg.FeeRecipient,
		RoyaltyReceiver: royaltyReceiver,
		PlatformFee:     domain.AmountFromBig(platformFee),
		Royalty:         domain.AmountFromBig(royalty),
		NetToSeller:     domain.AmountFromBig(netToSeller),
	}, nil
}
