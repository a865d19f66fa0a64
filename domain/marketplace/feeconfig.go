package marketplace

import (
	"math/big"
	"time"

	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
)

// MaxFeeBps caps the platform fee at 10%.
const MaxFeeBps = int64(1000)

type FeeConfig struct {
	FeeRecipient domain.Address `json:"feeRecipient" bson:"feeRecipient"`
	FeeBps       int64          `json:"feeBps" bson:"feeBps"`
	UpdatedAt    time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type FeeConfigRepo interface {
	// Get returns domain.ErrNotFound before the first update is stored.
	Get(c ctx.Ctx) (*FeeConfig, error)
	Upsert(c ctx.Ctx, cfg *FeeConfig) error
}

type AdminUseCase interface {
	GetFeeConfig(c ctx.Ctx) (*FeeConfig, error)
	SetFeeRecipient(c ctx.Ctx, recipient domain.Address) (*FeeConfig, error)
	SetFeeBps(c ctx.Ctx, bps int64) (*FeeConfig, error)
	// EmergencyWithdraw sweeps the engine's entire native balance to the
	// configured admin address.
	EmergencyWithdraw(c ctx.Ctx, chainId domain.ChainId) (domain.Amount, error)
	// SweepErc20 recovers stray tokens accidentally sent to the engine.
	SweepErc20(c ctx.Ctx, chainId domain.ChainId, token domain.Address) error
}

// Payouts is the exact split of one sale price. The three parts always sum
// to the price.
type Payouts struct {
	Seller          domain.Address `json:"seller"`
	FeeRecipient    domain.Address `json:"feeRecipient"`
	RoyaltyReceiver domain.Address `json:"royaltyReceiver"`
	PlatformFee     domain.Amount  `json:"platformFee"`
	Royalty         domain.Amount  `json:"royalty"`
	NetToSeller     domain.Amount  `json:"netToSeller"`
}

// SettlementUseCase distributes a sale price among platform, creator and
// seller. Exactly one settlement happens per completed sale; it must be
// invoked inside the sale's transaction so a failed payout undoes the sale.
type SettlementUseCase interface {
	Settle(c ctx.Ctx, id Id, seller domain.Address, price *big.Int) (*Payouts, error)
}
