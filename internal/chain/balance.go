// Package chain reads the wallet's spendable USDC balance from a Polygon
// RPC endpoint. It is the bot's only on-chain dependency.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// erc20ABI is the minimal fragment needed for balance lookups.
const erc20ABI = `[
	{"name":"balanceOf","type":"function","constant":true,
	 "inputs":[{"name":"_owner","type":"address"}],
	 "outputs":[{"name":"balance","type":"uint256"}]}
]`

// usdcDecimals converts raw USDC units (1e-6) into whole currency units.
const usdcDecimals = 1e6

// BalanceReader reads ERC-20 USDC balances over JSON-RPC. It dials lazily
// and caches the connection; each call carries its own timeout.
type BalanceReader struct {
	rpcURL  string
	token   common.Address
	wallet  common.Address
	timeout time.Duration
	parsed  abi.ABI
	client  *ethclient.Client
}

// NewBalanceReader creates a BalanceReader for the given RPC endpoint, USDC
// contract address, and wallet address.
func NewBalanceReader(rpcURL, tokenAddr, walletAddr string, timeout time.Duration) (*BalanceReader, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("chain: parse erc20 abi: %w", err)
	}
	if !common.IsHexAddress(tokenAddr) {
		return nil, fmt.Errorf("chain: invalid token address %q", tokenAddr)
	}
	if !common.IsHexAddress(walletAddr) {
		return nil, fmt.Errorf("chain: invalid wallet address %q", walletAddr)
	}
	return &BalanceReader{
		rpcURL:  rpcURL,
		token:   common.HexToAddress(tokenAddr),
		wallet:  common.HexToAddress(walletAddr),
		timeout: timeout,
		parsed:  parsed,
	}, nil
}

// AvailableCapital returns the wallet's USDC balance in whole currency
// units. Any RPC failure is returned as an error; the orchestrator treats
// that as zero spendable capital for the cycle.
func (r *BalanceReader) AvailableCapital(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.client == nil {
		client, err := ethclient.DialContext(ctx, r.rpcURL)
		if err != nil {
			return 0, fmt.Errorf("chain: dial rpc: %w", err)
		}
		r.client = client
	}

	data, err := r.parsed.Pack("balanceOf", r.wallet)
	if err != nil {
		return 0, fmt.Errorf("chain: pack balanceOf: %w", err)
	}

	msg := ethereum.CallMsg{To: &r.token, Data: data}
	res, err := r.client.CallContract(ctx, msg, nil)
	if err != nil {
		return 0, fmt.Errorf("chain: call balanceOf: %w", err)
	}
	if len(res) < 32 {
		return 0, fmt.Errorf("chain: balanceOf result length %d", len(res))
	}

	raw := new(big.Int).SetBytes(res)
	balance, _ := new(big.Float).Quo(new(big.Float).SetInt(raw), big.NewFloat(usdcDecimals)).Float64()
	return balance, nil
}

// Close releases the cached RPC connection.
func (r *BalanceReader) Close() {
	if r.client != nil {
		r.client.Close()
		r.client = nil
	}
}
