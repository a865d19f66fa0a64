package chain

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
)

var (
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrTxReverted       = errors.New("transaction reverted")
)

type ClientCfg struct {
	RpcUrls map[int32]string
	// OperatorKey signs engine-originated transactions (payouts, token
	// transfers). Hex encoded, no 0x prefix.
	OperatorKey string
}

type Client interface {
	Call(c bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error)
	// Send signs and submits a transaction and waits for its receipt.
	// A mined-but-reverted transaction returns ErrTxReverted.
	Send(c bCtx.Ctx, chainId int32, to common.Address, value *big.Int, data []byte) (common.Hash, error)
	// BalanceAt returns the current native balance of addr.
	BalanceAt(c bCtx.Ctx, chainId int32, addr common.Address) (*big.Int, error)
	// Operator is the engine's signing address.
	Operator() common.Address
}

type clientImpl struct {
	clients     map[int32]*ethclient.Client
	operatorKey *ecdsa.PrivateKey
	operator    common.Address
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	clients := make(map[int32]*ethclient.Client)
	var anyerr error
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		clients[chainId] = client
	}

	key, err := crypto.HexToECDSA(cfg.OperatorKey)
	if err != nil {
		return nil, err
	}

	return &clientImpl{
		clients:     clients,
		operatorKey: key,
		operator:    crypto.PubkeyToAddress(key.PublicKey),
	}, anyerr
}

func (c *clientImpl) Operator() common.Address {
	return c.operator
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := client.CallContract(ctx, msg, blk)
	if err != nil {
		ctx.WithField("err", err).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

func (c *clientImpl) Send(ctx bCtx.Ctx, chainId int32, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return common.Hash{}, ErrUnsupportedChain
	}

	nonce, err := client.PendingNonceAt(ctx, c.operator)
	if err != nil {
		ctx.WithField("err", err).Error("client.PendingNonceAt failed")
		return common.Hash{}, err
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("client.SuggestGasPrice failed")
		return common.Hash{}, err
	}
	gas, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.operator,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		ctx.WithField("err", err).Error("client.EstimateGas failed")
		return common.Hash{}, err
	}

	tx := types.NewTransaction(nonce, to, value, gas, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(int64(chainId))), c.operatorKey)
	if err != nil {
		ctx.WithField("err", err).Error("types.SignTx failed")
		return common.Hash{}, err
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		ctx.WithField("err", err).Error("client.SendTransaction failed")
		return common.Hash{}, err
	}

	receipt, err := bind.WaitMined(ctx, client, signed)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"txHash": signed.Hash().Hex(),
		}).Error("waitMined failed")
		return signed.Hash(), err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return signed.Hash(), ErrTxReverted
	}
	return signed.Hash(), nil
}

func (c *clientImpl) BalanceAt(ctx bCtx.Ctx, chainId int32, addr common.Address) (*big.Int, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	return client.BalanceAt(ctx, addr, nil)
}
