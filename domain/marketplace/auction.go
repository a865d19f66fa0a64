package marketplace

import (
	"time"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
)

type Auction struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller          domain.Address `json:"seller" bson:"seller"`
	MinBid          domain.Amount  `json:"minBid" bson:"minBid"`
	// HighestBid is seeded with MinBid at creation; it only carries a real
	// bid once HasBid is set.
	HighestBid    domain.Amount  `json:"highestBid" bson:"highestBid"`
	HighestBidder domain.Address `json:"highestBidder" bson:"highestBidder"`
	HasBid        bool           `json:"hasBid" bson:"hasBid"`
	EndTime       time.Time      `json:"endTime" bson:"endTime"`
	Active        bool           `json:"active" bson:"active"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
}

func (a *Auction) ToId() Id {
	return Id{a.ChainId, a.ContractAddress, a.TokenId}
}

// PatchableAuction carries the fields an auction mutation may touch. A new
// auction on a settled key rewrites the same document.
type PatchableAuction struct {
	Seller        *domain.Address `bson:"seller"`
	MinBid        *domain.Amount  `bson:"minBid"`
	HighestBid    *domain.Amount  `bson:"highestBid"`
	HighestBidder *domain.Address `bson:"highestBidder"`
	HasBid        *bool           `bson:"hasBid"`
	EndTime       *time.Time      `bson:"endTime"`
	Active        *bool           `bson:"active"`
	CreatedAt     *time.Time      `bson:"createdAt"`
}

type AuctionRepo interface {
	// FindOne returns domain.ErrNotFound when no record exists for the key.
	FindOne(c ctx.Ctx, id Id) (*Auction, error)
	Insert(c ctx.Ctx, a *Auction) error
	Patch(c ctx.Ctx, id Id, value PatchableAuction) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
}

type CreateAuctionPayload struct {
	Id
	Seller          domain.Address `json:"-"`
	MinBid          domain.Amount  `json:"minBid" validate:"required"`
	DurationSeconds int64          `json:"duration" validate:"required,gt=0"`
}

type PlaceBidPayload struct {
	Id
	Bidder domain.Address `json:"-"`
	Amount domain.Amount  `json:"amount" validate:"required"`
}

// AuctionResult reports the outcome of a finished auction. Winner is empty
// and Sale nil when the auction ended without bids.
type AuctionResult struct {
	Id
	Winner domain.Address `json:"winner"`
	Amount domain.Amount  `json:"amount"`
	Sale   *Sale          `json:"sale,omitempty"`
}

type AuctionUseCase interface {
	Create(c ctx.Ctx, p CreateAuctionPayload) (*Auction, error)
	PlaceBid(c ctx.Ctx, p PlaceBidPayload) (*Auction, error)
	Result(c ctx.Ctx, id Id, caller domain.Address) (*AuctionResult, error)
	Cancel(c ctx.Ctx, id Id, caller domain.Address) error
	Get(c ctx.Ctx, id Id) (*Auction, error)
	TimeRemaining(c ctx.Ctx, id Id) (time.Duration, error)
}
