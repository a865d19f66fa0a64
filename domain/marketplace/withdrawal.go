package marketplace

import (
	"math/big"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
)

// Withdrawal is one actor's pull-payment balance. Displaced bidders are
// credited here instead of being push-paid, so a reverting recipient can
// never block new bids.
type Withdrawal struct {
	ChainId domain.ChainId `json:"chainId" bson:"chainId"`
	Address domain.Address `json:"address" bson:"address"`
	Pending domain.Amount  `json:"pending" bson:"pending"`
}

type WithdrawalRepo interface {
	// FindOne returns domain.ErrNotFound when the actor has no ledger entry.
	FindOne(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (*Withdrawal, error)
	Upsert(c ctx.Ctx, w *Withdrawal) error
}

type WithdrawalUseCase interface {
	// Credit adds to the actor's pending balance. It performs no transfer
	// and must be run inside the caller's transaction.
	Credit(c ctx.Ctx, chainId domain.ChainId, address domain.Address, amount *big.Int) error
	// Withdraw zeroes the balance first, then transfers it; a failed
	// transfer aborts the operation and restores the balance.
	Withdraw(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (domain.Amount, error)
	GetPending(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (domain.Amount, error)
}
