package marketplace

import (
	"time"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
)

type Listing struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller          domain.Address `json:"seller" bson:"seller"`
	Price           domain.Amount  `json:"price" bson:"price"`
	DisplayPrice    string         `json:"displayPrice" bson:"displayPrice"`
	Active          bool           `json:"active" bson:"active"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
}

func (l *Listing) ToId() Id {
	return Id{l.ChainId, l.ContractAddress, l.TokenId}
}

// PatchableListing carries the fields a listing mutation may touch. Relisting
// a canceled key rewrites the same document, history lives in the event feed.
type PatchableListing struct {
	Seller       *domain.Address `bson:"seller"`
	Price        *domain.Amount  `bson:"price"`
	DisplayPrice *string         `bson:"displayPrice"`
	Active       *bool           `bson:"active"`
	CreatedAt    *time.Time      `bson:"createdAt"`
}

type ListingRepo interface {
	// FindOne returns domain.ErrNotFound when no record exists for the key.
	FindOne(c ctx.Ctx, id Id) (*Listing, error)
	Insert(c ctx.Ctx, l *Listing) error
	Patch(c ctx.Ctx, id Id, value PatchableListing) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
}

type CreateListingPayload struct {
	Id
	Seller domain.Address `json:"-"`
	Price  domain.Amount  `json:"price" validate:"required"`
}

type BuyListingPayload struct {
	Id
	Buyer domain.Address `json:"-"`
	Paid  domain.Amount  `json:"paid" validate:"required"`
}

// Sale is the settled outcome of a completed purchase or auction.
type Sale struct {
	Id
	Seller      domain.Address `json:"seller"`
	Buyer       domain.Address `json:"buyer"`
	Price       domain.Amount  `json:"price"`
	PlatformFee domain.Amount  `json:"platformFee"`
	Royalty     domain.Amount  `json:"royalty"`
	NetToSeller domain.Amount  `json:"netToSeller"`
}

type ListingUseCase interface {
	Create(c ctx.Ctx, p CreateListingPayload) (*Listing, error)
	Buy(c ctx.Ctx, p BuyListingPayload) (*Sale, error)
	Cancel(c ctx.Ctx, id Id, caller domain.Address) error
	Get(c ctx.Ctx, id Id) (*Listing, error)
}
