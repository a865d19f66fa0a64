package marketplace

import (
	"time"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
)

type EventType string

const (
	// listing
	EventTypeItemListed      EventType = "itemListed"
	EventTypeItemSold        EventType = "itemSold"
	EventTypeListingCanceled EventType = "listingCanceled"

	// auction
	EventTypeAuctionCreated  EventType = "auctionCreated"
	EventTypeBidPlaced       EventType = "bidPlaced"
	EventTypeBidRefunded     EventType = "bidRefunded"
	EventTypeAuctionResulted EventType = "auctionResulted"
	EventTypeAuctionCanceled EventType = "auctionCanceled"

	// ledger / admin
	EventTypeWithdrawn           EventType = "withdrawn"
	EventTypeFeeRecipientUpdated EventType = "feeRecipientUpdated"
	EventTypeFeeBpsUpdated       EventType = "feeBpsUpdated"
)

// Event is an append-only record for external indexers.
type Event struct {
	EventId         string         `json:"eventId" bson:"eventId"`
	Type            EventType      `json:"type" bson:"type"`
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	Account         domain.Address `json:"account" bson:"account"`
	To              domain.Address `json:"to" bson:"to"`
	Amount          domain.Amount  `json:"amount" bson:"amount"`
	DisplayAmount   string         `json:"displayAmount" bson:"displayAmount"`
	Time            time.Time      `json:"time" bson:"time"`
}

type EventRepo interface {
	Insert(c ctx.Ctx, e *Event) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Event, error)
}
