package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/niftybay/goapi/base/abi"
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/chain"
	"golang.org/x/xerrors"
)

// Payout moves native value out of the operator wallet. Every settlement
// leg goes through Transfer and a failed leg fails the whole call.
type Payout struct {
	chainService chain.Client
	erc20Abi     ethabi.ABI
}

func NewPayout(chainService chain.Client) marketplace.PayoutService {
	return &Payout{
		erc20Abi:     baseabi.ERC20TokenABI,
		chainService: chainService,
	}
}

func (p *Payout) Transfer(ctx bCtx.Ctx, chainId domain.ChainId, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	if _, err := p.chainService.Send(ctx, int32(chainId), common.HexToAddress(string(to)), amount, nil); err != nil {
		return xerrors.Errorf("payout to %s: %w", to, err)
	}
	return nil
}

func (p *Payout) Balance(ctx bCtx.Ctx, chainId domain.ChainId) (*big.Int, error) {
	return p.chainService.BalanceAt(ctx, int32(chainId), p.chainService.Operator())
}

func (p *Payout) SweepErc20(ctx bCtx.Ctx, chainId domain.ChainId, token, to domain.Address) error {
	tokenAddr := common.HexToAddress(string(token))
	unpacked, err := p.chainService.Call(ctx, int32(chainId), tokenAddr, nil, p.erc20Abi, "balanceOf", p.chainService.Operator())
	if err != nil {
		return err
	}
	balance := unpacked[0].(*big.Int)
	if balance.Sign() == 0 {
		return nil
	}
	data, err := p.erc20Abi.Pack("transfer", common.HexToAddress(string(to)), balance)
	if err != nil {
		return err
	}
	if _, err := p.chainService.Send(ctx, int32(chainId), tokenAddr, nil, data); err != nil {
		return xerrors.Errorf("sweep %s: %w", token, err)
	}
	return nil
}
