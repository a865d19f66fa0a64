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

// Erc721 adapts erc721 collections to the marketplace's TokenRegistry.
type Erc721 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc721(chainService chain.Client) marketplace.TokenRegistry {
	return &Erc721{
		abi:          baseabi.ERC721TokenABI,
		chainService: chainService,
	}
}

func parseTokenId(id domain.TokenId) (*big.Int, error) {
	v, ok := new(big.Int).SetString(id.String(), 10)
	if !ok {
		return nil, xerrors.Errorf("invalid token id %s", id)
	}
	return v, nil
}

func (e *Erc721) OwnerOf(ctx bCtx.Ctx, id marketplace.Id) (domain.Address, error) {
	tokenId, err := parseTokenId(id.TokenId)
	if err != nil {
		return "", err
	}
	method := "ownerOf"
	unpacked, err := e.chainService.Call(ctx, int32(id.ChainId), common.HexToAddress(string(id.ContractAddress)), nil, e.abi, method, tokenId)
	if err != nil {
		return "", err
	}
	return domain.Address(unpacked[0].(common.Address).Hex()).ToLower(), nil
}

func (e *Erc721) IsApprovedOrOperator(ctx bCtx.Ctx, id marketplace.Id, owner, operator domain.Address) (bool, error) {
	tokenId, err := parseTokenId(id.TokenId)
	if err != nil {
		return false, err
	}
	contractAddr := common.HexToAddress(string(id.ContractAddress))

	unpacked, err := e.chainService.Call(ctx, int32(id.ChainId), contractAddr, nil, e.abi, "getApproved", tokenId)
	if err != nil {
		return false, err
	}
	if approved := unpacked[0].(common.Address); domain.Address(approved.Hex()).Equals(operator) {
		return true, nil
	}

	unpacked, err = e.chainService.Call(ctx, int32(id.ChainId), contractAddr, nil, e.abi, "isApprovedForAll",
		common.HexToAddress(string(owner)), common.HexToAddress(string(operator)))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721) SafeTransfer(ctx bCtx.Ctx, id marketplace.Id, from, to domain.Address) error {
	tokenId, err := parseTokenId(id.TokenId)
	if err != nil {
		return err
	}
	data, err := e.abi.Pack("safeTransferFrom",
		common.HexToAddress(string(from)), common.HexToAddress(string(to)), tokenId)
	if err != nil {
		return err
	}
	if _, err := e.chainService.Send(ctx, int32(id.ChainId), common.HexToAddress(string(id.ContractAddress)), nil, data); err != nil {
		return xerrors.Errorf("safeTransferFrom: %w", err)
	}
	return nil
}
