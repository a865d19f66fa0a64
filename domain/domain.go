package domain

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	Big0 = big.NewInt(0)
	Big1 = big.NewInt(1)

	// BpsDenominator is the basis-point scale for fee and royalty rates.
	BpsDenominator = big.NewInt(10000)
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0 || a.ToLower() == EmptyAddress
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

// Amount is a wei-denominated integer carried as a decimal string, the way
// on-chain values are persisted. Use Big for arithmetic.
type Amount string

const ZeroAmount = Amount("0")

func AmountFromBig(b *big.Int) Amount {
	if b == nil {
		return ZeroAmount
	}
	return Amount(b.String())
}

// Big parses the amount. Returns nil for malformed or negative values.
func (a Amount) Big() *big.Int {
	if len(a) == 0 {
		return nil
	}
	b, ok := new(big.Int).SetString(string(a), 10)
	if !ok || b.Sign() < 0 {
		return nil
	}
	return b
}

func (a Amount) IsPositive() bool {
	b := a.Big()
	return b != nil && b.Sign() > 0
}

func (a Amount) String() string {
	return string(a)
}

// Display renders the wei amount in whole-token units for api responses.
func (a Amount) Display() string {
	b := a.Big()
	if b == nil {
		return "0"
	}
	return decimal.NewFromBigInt(b, -18).String()
}

type BlockNumber uint64

type TxHash string

// Table is a mongo collection name.
type Table string

const (
	TableListings          Table = "listings"
	TableAuctions          Table = "auctions"
	TableWithdrawals       Table = "withdrawals"
	TableFeeConfig         Table = "fee_config"
	TableMarketplaceEvents Table = "marketplace_events"
)
