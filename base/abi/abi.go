package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var ERC721TokenABI abi.ABI

var erc721ABI = `[{"type":"function","name":"supportsInterface","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"bytes4","name":"interfaceID"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"ownerOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tokenId"}],"outputs":[{"type":"address"}]},{"type":"function","name":"getApproved","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tokenId"}],"outputs":[{"type":"address"}]},{"type":"function","name":"isApprovedForAll","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"_owner"},{"type":"address","name":"_operator"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"safeTransferFrom","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"address","name":"_from"},{"type":"address","name":"_to"},{"type":"uint256","name":"_tokenId"}],"outputs":[]}]`

// RoyaltyABI is the EIP-2981 royalty lookup surface.
var RoyaltyABI abi.ABI

var royaltyABI = `[{"type":"function","name":"royaltyInfo","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tokenId"},{"type":"uint256","name":"_salePrice"}],"outputs":[{"type":"address","name":"receiver"},{"type":"uint256","name":"royaltyAmount"}]},{"type":"function","name":"supportsInterface","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"bytes4","name":"interfaceID"}],"outputs":[{"type":"bool"}]}]`

var ERC20TokenABI abi.ABI

var erc20ABI = `[{"type":"function","name":"balanceOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"_owner"}],"outputs":[{"type":"uint256"}]},{"type":"function","name":"transfer","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"address","name":"_to"},{"type":"uint256","name":"_value"}],"outputs":[{"type":"bool"}]}]`

func init() {
	for src, dst := range map[string]*abi.ABI{
		erc721ABI:  &ERC721TokenABI,
		royaltyABI: &RoyaltyABI,
		erc20ABI:   &ERC20TokenABI,
	} {
		parsed, err := abi.JSON(strings.NewReader(src))
		if err != nil {
			panic(err)
		}
		*dst = parsed
	}
}
