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
)

// RoyaltyEngine reads eip-2981 royaltyInfo straight off the collection
// contract. Collections without the interface just revert, callers treat
// any error as no royalty.
type RoyaltyEngine struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewRoyaltyEngine(chainService chain.Client) marketplace.RoyaltyProvider {
	return &RoyaltyEngine{
		abi:          baseabi.RoyaltyABI,
		chainService: chainService,
	}
}

func (r *RoyaltyEngine) RoyaltyInfo(ctx bCtx.Ctx, id marketplace.Id, salePrice *big.Int) (domain.Address, *big.Int, error) {
	tokenId, err := parseTokenId(id.TokenId)
	if err != nil {
		return domain.EmptyAddress, nil, err
	}
	unpacked, err := r.chainService.Call(ctx, int32(id.ChainId), common.HexToAddress(string(id.ContractAddress)), nil, r.abi, "royaltyInfo", tokenId, salePrice)
	if err != nil {
		return domain.EmptyAddress, nil, err
	}
	receiver := domain.Address(unpacked[0].(common.Address).Hex()).ToLower()
	amount := unpacked[1].(*big.Int)
	return receiver, amount, nil
}
