package marketplace

import (
	"math/big"
	"time"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
)

// Id identifies one token on one chain.
type Id struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId" param:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress" param:"contract"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId" param:"tokenId"`
}

func (id Id) ToLower() Id {
	id.ContractAddress = id.ContractAddress.ToLower()
	return id
}

const (
	MinAuctionDuration = time.Hour
	MaxAuctionDuration = 30 * 24 * time.Hour
	AntiSnipeWindow    = 15 * time.Minute
	ResultGracePeriod  = 24 * time.Hour
)

// MinNextBid is the smallest acceptable outbid over the current highest bid.
// The increment is highestBid*5/100 with floor division, matching the
// on-chain arithmetic: below 20 wei the increment rounds down to zero and
// an equal re-bid is accepted.
func MinNextBid(highestBid *big.Int) *big.Int {
	inc := new(big.Int).Div(new(big.Int).Mul(highestBid, big.NewInt(5)), big.NewInt(100))
	return new(big.Int).Add(highestBid, inc)
}

// TokenRegistry is the external asset registry. Ownership and transfer
// semantics live entirely on the other side of this interface.
type TokenRegistry interface {
	OwnerOf(ctx.Ctx, Id) (domain.Address, error)
	// IsApprovedOrOperator reports whether operator may transfer the token,
	// via per-token approval or blanket operator approval.
	IsApprovedOrOperator(c ctx.Ctx, id Id, owner, operator domain.Address) (bool, error)
	// SafeTransfer must fail loudly when the receiver rejects the token.
	SafeTransfer(c ctx.Ctx, id Id, from, to domain.Address) error
}

// RoyaltyProvider is optional and untrusted. Callers must treat any error
// as "no royalty" rather than propagating it.
type RoyaltyProvider interface {
	RoyaltyInfo(c ctx.Ctx, id Id, salePrice *big.Int) (domain.Address, *big.Int, error)
}

// PayoutService moves native funds out of the engine. Every transfer is
// checked; a failed transfer is fatal to the operation that requested it.
type PayoutService interface {
	Transfer(c ctx.Ctx, chainId domain.ChainId, to domain.Address, amount *big.Int) error
	// Balance returns the engine's custodied native balance.
	Balance(c ctx.Ctx, chainId domain.ChainId) (*big.Int, error)
	// SweepErc20 recovers stray tokens sent to the engine address.
	SweepErc20(c ctx.Ctx, chainId domain.ChainId, token, to domain.Address) error
}
