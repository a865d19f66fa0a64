package marketplace

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinNextBid(t *testing.T) {
	cases := []struct {
		name       string
		highestBid int64
		want       int64
	}{
		{
			name:       "five percent increment",
			highestBid: 1000,
			want:       1050,
		},
		{
			name:       "increment floors down",
			highestBid: 999,
			want:       1048,
		},
		{
			name:       "tiny bid yields zero increment",
			highestBid: 19,
			want:       19,
		},
		{
			name:       "smallest bid with a real increment",
			highestBid: 20,
			want:       21,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MinNextBid(big.NewInt(c.highestBid))
			assert.Equal(t, c.want, got.Int64())
		})
	}
}

func TestIdToLower(t *testing.T) {
	id := Id{
		ChainId:         1,
		ContractAddress: "0xABCDEF0000000000000000000000000000000000",
		TokenId:         "7",
	}
	assert.Equal(t, Id{
		ChainId:         1,
		ContractAddress: "0xabcdef0000000000000000000000000000000000",
		TokenId:         "7",
	}, id.ToLower())
}
