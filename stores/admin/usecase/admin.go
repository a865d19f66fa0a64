package usecase

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/query"
)

var timeNow = time.Now

type adminImpl struct {
	q             query.Mongo
	feeConfigRepo marketplace.FeeConfigRepo
	eventRepo     marketplace.EventRepo
	payout        marketplace.PayoutService
	admin         domain.Address
}

func NewAdminUseCase(
	q query.Mongo,
	feeConfigRepo marketplace.FeeConfigRepo,
	eventRepo marketplace.EventRepo,
	payout marketplace.PayoutService,
	admin domain.Address,
) marketplace.AdminUseCase {
	// the admin address receives emergency sweeps, an unset one would burn
	// the custodied balance to the zero address
	if admin.IsEmpty() {
		panic("admin usecase: admin address is required")
	}
	return &adminImpl{
		q:             q,
		feeConfigRepo: feeConfigRepo,
		eventRepo:     eventRepo,
		payout:        payout,
		admin:         admin.ToLower(),
	}
}

func (im *adminImpl) GetFeeConfig(c bCtx.Ctx) (*marketplace.FeeConfig, error) {
	cfg, err := im.feeConfigRepo.Get(c)
	if err == domain.ErrNotFound {
		return &marketplace.FeeConfig{FeeRecipient: domain.EmptyAddress}, nil
	} else if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (im *adminImpl) SetFeeRecipient(c bCtx.Ctx, recipient domain.Address) (*marketplace.FeeConfig, error) {
	if recipient.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}

	cfg, err := im.GetFeeConfig(c)
	if err != nil {
		return nil, err
	}
	cfg.FeeRecipient = recipient.ToLower()
	cfg.UpdatedAt = timeNow()

	err = im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if err := im.feeConfigRepo.Upsert(c, cfg); err != nil {
			return err
		}
		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId: uuid.NewString(),
			Type:    marketplace.EventTypeFeeRecipientUpdated,
			To:      cfg.FeeRecipient,
			Time:    cfg.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (im *adminImpl) SetFeeBps(c bCtx.Ctx, bps int64) (*marketplace.FeeConfig, error) {
	if bps < 0 {
		return nil, domain.ErrBadParamInput
	}
	if bps > marketplace.MaxFeeBps {
		return nil, domain.ErrFeeTooHigh
	}

	cfg, err := im.GetFeeConfig(c)
	if err != nil {
		return nil, err
	}
	cfg.FeeBps = bps
	cfg.UpdatedAt = timeNow()

	err = im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		if err := im.feeConfigRepo.Upsert(c, cfg); err != nil {
			return err
		}
		return im.eventRepo.Insert(c, &marketplace.Event{
			EventId: uuid.NewString(),
			Type:    marketplace.EventTypeFeeBpsUpdated,
			Amount:  domain.AmountFromBig(big.NewInt(bps)),
			Time:    cfg.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (im *adminImpl) EmergencyWithdraw(c bCtx.Ctx, chainId domain.ChainId) (domain.Amount, error) {
	balance, err := im.payout.Balance(c, chainId)
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
		}).Error("payout.Balance failed")
		return "", err
	}
	if balance.Sign() <= 0 {
		return domain.AmountFromBig(new(big.Int)), nil
	}

	if err := im.payout.Transfer(c, chainId, im.admin, balance); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"balance": balance,
		}).Error("emergency withdraw transfer failed")
		return "", domain.ErrTransferFailed
	}

	// the sweep already happened, a failed event insert must not mask it
	amount := domain.AmountFromBig(balance)
	if err := im.eventRepo.Insert(c, &marketplace.Event{
		EventId:       uuid.NewString(),
		Type:          marketplace.EventTypeWithdrawn,
		ChainId:       chainId,
		Account:       im.admin,
		To:            im.admin,
		Amount:        amount,
		DisplayAmount: amount.Display(),
		Time:          timeNow(),
	}); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"amount":  amount,
		}).Error("eventRepo.Insert failed")
	}
	return amount, nil
}

func (im *adminImpl) SweepErc20(c bCtx.Ctx, chainId domain.ChainId, token domain.Address) error {
	if token.IsEmpty() {
		return domain.ErrInvalidAddress
	}
	if err := im.payout.SweepErc20(c, chainId, token.ToLower(), im.admin); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"token": token,
		}).Error("payout.SweepErc20 failed")
		return err
	}
	return nil
}
