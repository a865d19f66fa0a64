package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/query"
)

var timeNow = time.Now

type withdrawalImpl struct {
	mu             sync.Mutex
	q              query.Mongo
	withdrawalRepo marketplace.WithdrawalRepo
	eventRepo      marketplace.EventRepo
	payout         marketplace.PayoutService
}

func NewWithdrawalUseCase(
	q query.Mongo,
	withdrawalRepo marketplace.WithdrawalRepo,
	eventRepo marketplace.EventRepo,
	payout marketplace.PayoutService,
) marketplace.WithdrawalUseCase {
	return &withdrawalImpl{
		q:              q,
		withdrawalRepo: withdrawalRepo,
		eventRepo:      eventRepo,
		payout:         payout,
	}
}

// Credit books amount on the actor's pending balance. It joins the caller's
// transaction and never touches the chain, so a recipient that reverts on
// receive can never block the crediting operation.
func (im *withdrawalImpl) Credit(c bCtx.Ctx, chainId domain.ChainId, address domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}

	pending := new(big.Int)
	w, err := im.withdrawalRepo.FindOne(c, chainId, address)
	if err == nil {
		if pending = w.Pending.Big(); pending == nil {
			c.WithField("pending", w.Pending).Error("corrupt pending balance")
			return domain.ErrInternalServerError
		}
	} else if err != domain.ErrNotFound {
		return err
	}

	return im.withdrawalRepo.Upsert(c, &marketplace.Withdrawal{
		ChainId: chainId,
		Address: address.ToLower(),
		Pending: domain.AmountFromBig(new(big.Int).Add(pending, amount)),
	})
}

func (im *withdrawalImpl) Withdraw(c bCtx.Ctx, chainId domain.ChainId, address domain.Address) (domain.Amount, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	var amount domain.Amount

	err := im.q.RunWithTransaction(c, func(c bCtx.Ctx) error {
		w, err := im.withdrawalRepo.FindOne(c, chainId, address)
		if err == domain.ErrNotFound {
			return domain.ErrNothingToWithdraw
		} else if err != nil {
			return err
		}

		pending := w.Pending.Big()
		if pending == nil {
			c.WithField("pending", w.Pending).Error("corrupt pending balance")
			return domain.ErrInternalServerError
		}
		if pending.Sign() <= 0 {
			return domain.ErrNothingToWithdraw
		}

		// zero the balance before transferring; an abort restores it
		if err := im.withdrawalRepo.Upsert(c, &marketplace.Withdrawal{
			ChainId: chainId,
			Address: address.ToLower(),
			Pending: domain.AmountFromBig(new(big.Int)),
		}); err != nil {
			return err
		}

		amount = domain.AmountFromBig(pending)
		if err := im.eventRepo.Insert(c, &marketplace.Event{
			EventId:       uuid.NewString(),
			Type:          marketplace.EventTypeWithdrawn,
			ChainId:       chainId,
			Account:       address.ToLower(),
			Amount:        amount,
			DisplayAmount: amount.Display(),
			Time:          timeNow(),
		}); err != nil {
			return err
		}

		if err := im.payout.Transfer(c, chainId, address, pending); err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"address": address,
				"amount":  amount,
			}).Error("withdrawal transfer failed")
			return domain.ErrTransferFailed
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return amount, nil
}

func (im *withdrawalImpl) GetPending(c bCtx.Ctx, chainId domain.ChainId, address domain.Address) (domain.Amount, error) {
	w, err := im.withdrawalRepo.FindOne(c, chainId, address)
	if err == domain.ErrNotFound {
		return domain.AmountFromBig(new(big.Int)), nil
	} else if err != nil {
		return "", err
	}
	return w.Pending, nil
}
